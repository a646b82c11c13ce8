package domain_test

import (
	"errors"
	"testing"

	"go.trai.ch/pmake/internal/core/domain"
)

func TestTemplate_Expand(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		target   string
		captures domain.Captures
		want     string
	}{
		{name: "no placeholders", raw: "config.h", target: "x", want: "config.h"},
		{name: "single capture", raw: "{0}.c", target: "main.o", captures: domain.Captures{"main"}, want: "main.c"},
		{name: "repeated capture", raw: "{0}/{0}.c", target: "a.o", captures: domain.Captures{"a"}, want: "a/a.c"},
		{name: "two captures reversed", raw: "{1}-{0}", target: "t", captures: domain.Captures{"x", "y"}, want: "y-x"},
		{name: "escaped braces", raw: "{{{0}}}.txt", target: "t", captures: domain.Captures{"v"}, want: "{v}.txt"},
		{name: "empty capture", raw: "lib{0}.a", target: "t", captures: domain.Captures{""}, want: "lib.a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := domain.ParseTemplate(tt.raw)
			if err != nil {
				t.Fatalf("ParseTemplate(%q) failed: %v", tt.raw, err)
			}
			got, err := tmpl.Expand(tt.target, tt.captures)
			if err != nil {
				t.Fatalf("Expand failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expand() = %q, want %q", got, tt.want)
			}
			if tmpl.String() != tt.raw {
				t.Errorf("String() = %q, want %q", tmpl.String(), tt.raw)
			}
		})
	}
}

func TestTemplate_ExpandMissingCapture(t *testing.T) {
	tmpl := domain.MustParseTemplate("{1}.c")

	_, err := tmpl.Expand("main.o", domain.Captures{"main"})
	if err == nil {
		t.Fatal("expected error for out-of-range capture index, got nil")
	}
	if !errors.Is(err, domain.ErrTemplateSubstitution) {
		t.Errorf("expected ErrTemplateSubstitution, got %v", err)
	}

	var tmplErr *domain.TemplateError
	if !errors.As(err, &tmplErr) {
		t.Fatalf("expected *domain.TemplateError, got %T", err)
	}
	if tmplErr.Index != 1 || tmplErr.Captured != 1 || tmplErr.Target != "main.o" {
		t.Errorf("unexpected error fields: %+v", tmplErr)
	}
}

func TestTemplate_ExpandLiteralTargetWithPlaceholder(t *testing.T) {
	tmpl := domain.MustParseTemplate("{0}.c")

	_, err := tmpl.Expand("app", domain.Captures{})
	if !errors.Is(err, domain.ErrTemplateSubstitution) {
		t.Errorf("expected ErrTemplateSubstitution, got %v", err)
	}
}

func TestParseTemplate_Invalid(t *testing.T) {
	for _, raw := range []string{"{0", "{name}.c", "{}.c", "a}b", "{-1}"} {
		t.Run(raw, func(t *testing.T) {
			if _, err := domain.ParseTemplate(raw); err == nil {
				t.Errorf("expected error for %q, got nil", raw)
			}
		})
	}
}

func TestTemplate_MaxIndex(t *testing.T) {
	if got := domain.MustParseTemplate("plain").MaxIndex(); got != -1 {
		t.Errorf("MaxIndex() = %d, want -1", got)
	}
	if got := domain.MustParseTemplate("{2}/{0}").MaxIndex(); got != 2 {
		t.Errorf("MaxIndex() = %d, want 2", got)
	}
}

func TestParseTemplates_KeepsOrder(t *testing.T) {
	templates, err := domain.ParseTemplates([]string{"b", "a", "{0}"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(templates) != 3 || templates[0].String() != "b" || templates[2].String() != "{0}" {
		t.Errorf("unexpected templates: %v", templates)
	}

	if templates, err := domain.ParseTemplates(nil); err != nil || templates != nil {
		t.Errorf("expected nil, nil for empty input, got %v, %v", templates, err)
	}
}
