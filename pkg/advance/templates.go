package advance

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

// ErrUnknownTemplate is returned for preset keys that are not defined.
var ErrUnknownTemplate = errors.New("unknown template")

// Preset is a partial record: empty fields leave the base value alone.
type Preset struct {
	DetailName     string `yaml:"detailName"`
	VenueName      string `yaml:"venueName"`
	Address        string `yaml:"address"`
	PrimaryComms   string `yaml:"primaryComms"`
	SecondaryComms string `yaml:"secondaryComms"`
	CodeWords      string `yaml:"codeWords"`
	Notes          string `yaml:"notes"`
}

var (
	presetsOnce sync.Once
	presets     map[string]Preset
	presetsErr  error
)

func loadPresets() (map[string]Preset, error) {
	presetsOnce.Do(func() {
		presetsErr = yaml.Unmarshal(templatesYAML, &presets)
		if presetsErr != nil {
			presetsErr = fmt.Errorf("parsing templates: %w", presetsErr)
		}
	})
	return presets, presetsErr
}

// TemplateKeys lists the available preset keys in sorted order.
func TemplateKeys() []string {
	all, err := loadPresets()
	if err != nil {
		return nil
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LookupTemplate finds a preset by case-insensitive key.
func LookupTemplate(key string) (Preset, error) {
	all, err := loadPresets()
	if err != nil {
		return Preset{}, err
	}
	p, ok := all[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, key)
	}
	return p, nil
}

// ApplyTemplate builds a fresh default record for today with the preset on
// top. Lists from current survive when they hold at least one entry.
func ApplyTemplate(key string, current Advance, today string) (Advance, error) {
	p, err := LookupTemplate(key)
	if err != nil {
		return Advance{}, err
	}
	out := Default(today)
	patch(&out.DetailName, p.DetailName)
	patch(&out.VenueName, p.VenueName)
	patch(&out.Address, p.Address)
	patch(&out.PrimaryComms, p.PrimaryComms)
	patch(&out.SecondaryComms, p.SecondaryComms)
	patch(&out.CodeWords, p.CodeWords)
	patch(&out.Notes, p.Notes)

	cur := current.Clone()
	if len(cur.Agents) > 0 {
		out.Agents = cur.Agents
	}
	if len(cur.Pocs) > 0 {
		out.Pocs = cur.Pocs
	}
	if len(cur.BoloPois) > 0 {
		out.BoloPois = cur.BoloPois
	}
	return out, nil
}

func patch(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
