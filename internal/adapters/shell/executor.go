// Package shell provides the shell executor adapter.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/zerr"

	"go.trai.ch/pmake/internal/core/domain"
	"go.trai.ch/pmake/internal/core/ports"
)

const (
	// EnvTarget names the variable holding the target being built.
	EnvTarget = "PMAKE_TARGET"
	// EnvPrereqs names the variable holding the space separated prerequisites.
	EnvPrereqs = "PMAKE_PREREQS"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor by running each recipe line through sh -c.
type Executor struct {
	logger ports.Logger
	shell  string
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
		shell:  "sh",
	}
}

// Execute runs the recipe's commands in order and stops at the first failure.
//
// The environment is merged with the following priority (low to high):
//  1. os.Environ()
//  2. PMAKE_TARGET and PMAKE_PREREQS for the invocation
//  3. recipe.Environment, where $VAR refers to the value merged so far
func (e *Executor) Execute(ctx context.Context, recipe *domain.Recipe, inv *domain.Invocation) error {
	if len(recipe.Commands) == 0 {
		return nil
	}

	env := resolveEnvironment(os.Environ(), invocationEnv(inv), recipe.Environment)

	executable := e.shell
	if lp, err := lookPath(e.shell, env); err == nil {
		executable = lp
	}

	stdout, stderr := writerOrDiscard(inv.Stdout), writerOrDiscard(inv.Stderr)

	for _, line := range recipe.Commands {
		script := Expand(line, inv)
		e.logger.Info(script, "target", inv.Target)

		cmd := exec.CommandContext(ctx, executable, "-c", script) //nolint:gosec // user provided command
		cmd.Args[0] = e.shell
		cmd.Env = env
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		if recipe.WorkingDir != "" {
			cmd.Dir = recipe.WorkingDir
		}

		if err := cmd.Run(); err != nil {
			exitCode := -1
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				exitCode = exitErr.ExitCode()
			}
			return zerr.With(
				zerr.With(zerr.Wrap(err, domain.ErrCommandFailed.Error()), "exit_code", exitCode),
				"command", script,
			)
		}
	}

	return nil
}

// Expand replaces {target}, {prereq} and {prereqs} in line with shell-quoted values.
// Other braces are left for the shell.
func Expand(line string, inv *domain.Invocation) string {
	first := ""
	if len(inv.Prerequisites) > 0 {
		first = inv.Prerequisites[0]
	}

	quoted := make([]string, len(inv.Prerequisites))
	for i, p := range inv.Prerequisites {
		quoted[i] = Quote(p)
	}

	return strings.NewReplacer(
		"{target}", Quote(inv.Target),
		"{prereqs}", strings.Join(quoted, " "),
		"{prereq}", Quote(first),
	).Replace(line)
}

// Quote returns s quoted for a POSIX shell. Plain words are returned unchanged.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, needsQuoting) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func needsQuoting(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("_-./+=:,@%", r):
		return false
	default:
		return true
	}
}

func invocationEnv(inv *domain.Invocation) map[string]string {
	return map[string]string{
		EnvTarget:  inv.Target,
		EnvPrereqs: strings.Join(inv.Prerequisites, " "),
	}
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

// resolveEnvironment merges environment variables with the defined priority.
func resolveEnvironment(sysEnv []string, invEnv, recipeEnv map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(invEnv)+len(recipeEnv))
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}

	for k, v := range invEnv {
		envMap[k] = v
	}

	// Expand against a snapshot so entries cannot see each other's overrides.
	base := make(map[string]string, len(envMap))
	for k, v := range envMap {
		base[k] = v
	}
	for k, v := range recipeEnv {
		envMap[k] = os.Expand(v, func(name string) string { return base[name] })
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// lookPath searches for an executable in the directories named by the PATH entry of env.
func lookPath(file string, env []string) (string, error) {
	if filepath.IsAbs(file) {
		return file, findExecutable(file)
	}

	var path string
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "PATH="); ok {
			path = after
			break
		}
	}
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
