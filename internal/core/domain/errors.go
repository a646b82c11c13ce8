package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

var (
	// ErrNoRuleAndMissingFile is returned when a target has no matching rule and no file exists for it.
	ErrNoRuleAndMissingFile = zerr.New("no rule to make target and no such file")

	// ErrAmbiguousRule is returned when more than one rule matches a target under the reject-ambiguous policy.
	ErrAmbiguousRule = zerr.New("multiple rules match target")

	// ErrCycleDetected is returned when a target transitively depends on itself.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrActionFailed is returned when the action bound to a rule fails.
	ErrActionFailed = zerr.New("action failed")

	// ErrTemplateSubstitution is returned when a prerequisite template references a capture the pattern did not produce.
	ErrTemplateSubstitution = zerr.New("template references a missing capture group")

	// ErrTargetNotProduced is returned when a file rule's action completes without creating its target.
	ErrTargetNotProduced = zerr.New("rule did not produce the expected file, consider marking it phony")

	// ErrInvalidPattern is returned when a regex target pattern does not compile.
	ErrInvalidPattern = zerr.New("invalid target pattern")

	// ErrInvalidTemplate is returned when a prerequisite template is malformed.
	ErrInvalidTemplate = zerr.New("invalid prerequisite template")

	// ErrInvalidPolicy is returned when a match policy name is not recognized.
	ErrInvalidPolicy = zerr.New("invalid match policy, expected 'last-wins' or 'reject-ambiguous'")

	// ErrNilRule is returned when registering a rule without a pattern.
	ErrNilRule = zerr.New("rule has no target pattern")

	// ErrBuildFailed is returned when a build request fails.
	ErrBuildFailed = zerr.New("build failed")

	// ErrNoTargetsSpecified is returned when no targets are requested and no default exists.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrConfigReadFailed is returned when the rule file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read rule file")

	// ErrConfigParseFailed is returned when the rule file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse rule file")

	// ErrInvalidRule is returned when a rule definition in the rule file is incomplete.
	ErrInvalidRule = zerr.New("invalid rule definition")

	// ErrPathStatFailed is returned when stating a path fails for a reason other than absence.
	ErrPathStatFailed = zerr.New("failed to stat path")

	// ErrCommandFailed is returned when a recipe command exits unsuccessfully.
	ErrCommandFailed = zerr.New("command failed")

	// ErrDirectoryChangeFailed is returned when the working directory cannot be changed.
	ErrDirectoryChangeFailed = zerr.New("cannot enter directory")
)

// MissingSourceError reports a target that has no rule and does not exist on disk.
type MissingSourceError struct {
	Target string
}

func (e *MissingSourceError) Error() string {
	return ErrNoRuleAndMissingFile.Error() + ": '" + e.Target + "'"
}

// Unwrap returns the error kind.
func (e *MissingSourceError) Unwrap() error { return ErrNoRuleAndMissingFile }

// AmbiguousRuleError reports every rule source that matched a single target.
type AmbiguousRuleError struct {
	Target  string
	Matches []string
}

func (e *AmbiguousRuleError) Error() string {
	return ErrAmbiguousRule.Error() + " '" + e.Target + "': " + strings.Join(e.Matches, ", ")
}

// Unwrap returns the error kind.
func (e *AmbiguousRuleError) Unwrap() error { return ErrAmbiguousRule }

// CycleError reports a dependency cycle. Chain starts and ends with the same target.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return ErrCycleDetected.Error() + ": " + strings.Join(e.Chain, " -> ")
}

// Unwrap returns the error kind.
func (e *CycleError) Unwrap() error { return ErrCycleDetected }

// TemplateError reports a placeholder index that the matched pattern did not capture.
type TemplateError struct {
	Target   string
	Template string
	Index    int
	Captured int
}

func (e *TemplateError) Error() string {
	var b strings.Builder
	b.WriteString(ErrTemplateSubstitution.Error())
	b.WriteString(": template '")
	b.WriteString(e.Template)
	b.WriteString("' for target '")
	b.WriteString(e.Target)
	b.WriteString("' uses {")
	b.WriteString(strconv.Itoa(e.Index))
	b.WriteString("} but the pattern captured ")
	b.WriteString(strconv.Itoa(e.Captured))
	b.WriteString(" group(s)")
	return b.String()
}

// Unwrap returns the error kind.
func (e *TemplateError) Unwrap() error { return ErrTemplateSubstitution }

// ActionError reports a failed rule action together with the rule that owned it.
type ActionError struct {
	Target  string
	Pattern string
	Err     error
}

func (e *ActionError) Error() string {
	msg := e.Message()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Message returns the failure description without the cause.
func (e *ActionError) Message() string {
	msg := ErrActionFailed.Error() + " for target '" + e.Target + "'"
	if e.Pattern != "" && e.Pattern != e.Target {
		msg += " (rule " + e.Pattern + ")"
	}
	return msg
}

// Cause returns the error the action returned.
func (e *ActionError) Cause() error { return e.Err }

// Unwrap returns both the error kind and the underlying cause.
func (e *ActionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrActionFailed}
	}
	return []error{ErrActionFailed, e.Err}
}
