package plan

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Marshal serializes the plan to TOML.
func (p *Plan) Marshal() ([]byte, error) {
	data, err := toml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}
	return data, nil
}

// WriteFile persists the plan as a TOML document.
func (p *Plan) WriteFile(path string) error {
	data, err := p.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write plan %s: %w", path, err)
	}
	return nil
}

// LoadFile reads a plan previously written with WriteFile. Unset indices
// default to -1 so hand-edited files without them stay valid TOML.
func LoadFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan %s: %w", path, err)
	}
	p := Plan{RootIndex: -1, EFIIndex: -1}
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", path, err)
	}
	return &p, nil
}
