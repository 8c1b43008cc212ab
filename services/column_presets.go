package services

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var defaultPresetsYAML []byte

var ErrUnknownPreset = errors.New("unknown column preset")

// PresetColumn is one user-defined column added by a preset.
type PresetColumn struct {
	Name       string `yaml:"name" json:"name"`
	Subheaders int    `yaml:"subheaders" json:"subheaders"`
}

func (c PresetColumn) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Subheaders, validation.Required, validation.In(1, 2)),
	)
}

// ColumnPreset is a named column layout for new tables.
type ColumnPreset struct {
	Label   string         `yaml:"label" json:"label"`
	Columns []PresetColumn `yaml:"columns" json:"columns"`
}

// ColumnPresets maps preset names ("boq", "bom", ...) to their layouts.
type ColumnPresets map[string]ColumnPreset

type presetsFile struct {
	Presets ColumnPresets `yaml:"presets"`
}

// ParseColumnPresets decodes and validates a presets YAML document.
func ParseColumnPresets(data []byte) (ColumnPresets, error) {
	var doc presetsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse column presets: %w", err)
	}
	if len(doc.Presets) == 0 {
		return nil, errors.New("parse column presets: no presets defined")
	}
	for name, p := range doc.Presets {
		for i, c := range p.Columns {
			if err := c.Validate(); err != nil {
				return nil, fmt.Errorf("preset %q column %d: %w", name, i+1, err)
			}
		}
		if _, err := p.Schema(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
	}
	return doc.Presets, nil
}

// DefaultColumnPresets returns the presets shipped with the binary.
func DefaultColumnPresets() ColumnPresets {
	p, err := ParseColumnPresets(defaultPresetsYAML)
	if err != nil {
		panic(err)
	}
	return p
}

// LoadColumnPresets reads presets from path, or returns the built-in presets
// when path is empty.
func LoadColumnPresets(path string) (ColumnPresets, error) {
	if path == "" {
		return DefaultColumnPresets(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read column presets: %w", err)
	}
	return ParseColumnPresets(data)
}

// Schema applies the preset columns on top of the built-in columns.
func (p ColumnPreset) Schema() (ColumnSchema, error) {
	cols := DefaultColumns()
	for _, c := range p.Columns {
		var err error
		if cols, err = cols.AddColumn(c.Name, c.Subheaders); err != nil {
			return nil, fmt.Errorf("add column %q: %w", c.Name, err)
		}
	}
	return cols, nil
}

// Names returns the preset names in sorted order.
func (ps ColumnPresets) Names() []string {
	names := make([]string, 0, len(ps))
	for name := range ps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Columns returns the column schema of the named preset. An empty name
// yields the built-in columns.
func (ps ColumnPresets) Columns(name string) (ColumnSchema, error) {
	if name == "" {
		return DefaultColumns(), nil
	}
	p, ok := ps[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownPreset, name, ps.Names())
	}
	return p.Schema()
}
