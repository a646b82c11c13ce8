package config

import "gopkg.in/yaml.v3"

// Pmakefile represents the structure of the pmake.yaml rule file.
type Pmakefile struct {
	Version string    `yaml:"version"`
	Default string    `yaml:"default"`
	Policy  string    `yaml:"policy"`
	Rules   []RuleDTO `yaml:"rules"`
}

// RuleDTO represents a rule definition in the rule file.
// Exactly one of Target and Pattern is set.
type RuleDTO struct {
	Target      string            `yaml:"target"`
	Pattern     string            `yaml:"pattern"`
	Depends     []string          `yaml:"depends"`
	OrderOnly   []string          `yaml:"orderOnly"`
	Phony       bool              `yaml:"phony"`
	Cmd         []string          `yaml:"cmd"`
	Environment map[string]string `yaml:"environment"`

	// Line is the line of the rule in the rule file.
	Line int `yaml:"-"`
}

// UnmarshalYAML decodes the rule and records where it was declared.
func (r *RuleDTO) UnmarshalYAML(node *yaml.Node) error {
	type plain RuleDTO
	var dto plain
	if err := node.Decode(&dto); err != nil {
		return err
	}
	*r = RuleDTO(dto)
	r.Line = node.Line
	return nil
}
