// Package config provides the rule file loader for pmake.
package config

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"go.trai.ch/pmake/internal/core/domain"
	"go.trai.ch/pmake/internal/core/ports"
)

// SupportedVersion is the only rule file schema version understood by the loader.
const SupportedVersion = "1"

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
// Rule commands are bound to the executor it was created with.
type Loader struct {
	executor ports.Executor
}

// NewLoader creates a Loader whose rule actions run through executor.
func NewLoader(executor ports.Executor) *Loader {
	return &Loader{executor: executor}
}

// Load reads the rule file at path and returns its rules registered in declaration order.
func (l *Loader) Load(path string) (*domain.Registry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file Pmakefile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	if file.Version != SupportedVersion {
		return nil, zerr.With(zerr.With(domain.ErrConfigParseFailed, "path", path), "version", file.Version)
	}

	policy, err := domain.ParseMatchPolicy(file.Policy)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	reg := domain.NewRegistry(policy)
	if file.Default != "" {
		reg.SetDefaultTarget(file.Default)
	}

	name := filepath.Base(path)
	for i := range file.Rules {
		dto := &file.Rules[i]
		rule, err := l.buildRule(dto)
		if err != nil {
			return nil, zerr.With(err, "rule", name+":"+strconv.Itoa(dto.Line))
		}
		rule.Source = name + ":" + strconv.Itoa(dto.Line)
		if err := reg.Register(rule); err != nil {
			return nil, zerr.With(err, "rule", rule.Source)
		}
	}

	return reg, nil
}

func (l *Loader) buildRule(dto *RuleDTO) (*domain.Rule, error) {
	var pattern domain.TargetPattern
	switch {
	case dto.Target != "" && dto.Pattern != "":
		return nil, zerr.With(domain.ErrInvalidRule, "reason", "both target and pattern are set")
	case dto.Target != "":
		pattern = domain.LiteralPattern(dto.Target)
	case dto.Pattern != "":
		p, err := domain.RegexPattern(dto.Pattern)
		if err != nil {
			return nil, err
		}
		pattern = p
	default:
		return nil, zerr.With(domain.ErrInvalidRule, "reason", "one of target or pattern is required")
	}

	prereqs, err := domain.ParseTemplates(dto.Depends)
	if err != nil {
		return nil, err
	}
	orderOnly, err := domain.ParseTemplates(dto.OrderOnly)
	if err != nil {
		return nil, err
	}

	rule := &domain.Rule{
		Pattern:       pattern,
		Prerequisites: prereqs,
		OrderOnly:     orderOnly,
		Kind:          domain.KindFile,
	}
	if dto.Phony {
		rule.Kind = domain.KindPhony
	}

	// Recipes run in the process working directory, the same base target paths are checked against.
	if len(dto.Cmd) > 0 {
		recipe := &domain.Recipe{
			Commands:    dto.Cmd,
			Environment: dto.Environment,
		}
		rule.Action = func(ctx context.Context, inv *domain.Invocation) error {
			return l.executor.Execute(ctx, recipe, inv)
		}
	}

	return rule, nil
}
