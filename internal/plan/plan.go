package plan

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"treerun/internal/services"
)

// Plan is the parsed form of a plan file.
type Plan struct {
	Title string            `toml:"title"`
	Env   map[string]string `toml:"env"`
	Steps []Step            `toml:"steps"`
}

// Copy declares a file copy performed by a step.
type Copy struct {
	Src      string `toml:"src"`
	Dst      string `toml:"dst"`
	Verified bool   `toml:"verified"`
}

// Step is one node of the declared tree. Exactly one of Command, Copy,
// or Steps must be set: command and copy steps do work, grouping steps
// organize nested steps.
type Step struct {
	Title         string            `toml:"title"`
	Command       string            `toml:"command"`
	Dir           string            `toml:"dir"`
	Env           map[string]string `toml:"env"`
	StdinFromPrev bool              `toml:"stdin_from_result"`
	Copy          *Copy             `toml:"copy"`
	Steps         []Step            `toml:"steps"`
}

// Load reads and validates a plan file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "plan", "read", path, err)
	}
	var p Plan
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, services.Wrap(services.ErrValidation, "plan", "parse", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the plan's structural constraints.
func (p *Plan) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return services.Wrap(services.ErrValidation, "plan", "validate", "title is required", nil)
	}
	if len(p.Steps) == 0 {
		return services.Wrap(services.ErrValidation, "plan", "validate", "at least one step is required", nil)
	}
	for i := range p.Steps {
		if err := p.Steps[i].validate(p.Title); err != nil {
			return err
		}
	}
	return nil
}

func (s *Step) validate(parent string) error {
	where := fmt.Sprintf("step %q under %q", s.Title, parent)
	if strings.TrimSpace(s.Title) == "" {
		return services.Wrap(services.ErrValidation, "plan", "validate",
			fmt.Sprintf("step under %q is missing a title", parent), nil)
	}

	actions := 0
	if strings.TrimSpace(s.Command) != "" {
		actions++
	}
	if s.Copy != nil {
		actions++
	}
	if len(s.Steps) > 0 {
		actions++
	}
	if actions != 1 {
		return services.Wrap(services.ErrValidation, "plan", "validate",
			where+" must declare exactly one of command, copy, or steps", nil)
	}

	if s.Copy != nil {
		if strings.TrimSpace(s.Copy.Src) == "" || strings.TrimSpace(s.Copy.Dst) == "" {
			return services.Wrap(services.ErrValidation, "plan", "validate",
				where+" copy requires src and dst", nil)
		}
	}
	if s.StdinFromPrev && strings.TrimSpace(s.Command) == "" {
		return services.Wrap(services.ErrValidation, "plan", "validate",
			where+" sets stdin_from_result but has no command", nil)
	}

	for i := range s.Steps {
		if err := s.Steps[i].validate(s.Title); err != nil {
			return err
		}
	}
	return nil
}
