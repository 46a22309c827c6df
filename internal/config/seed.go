package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedPersona is one sample persona a fresh workspace is seeded with.
type SeedPersona struct {
	Name       string `yaml:"name" json:"name"`
	Prompt     string `yaml:"prompt" json:"prompt"`
	ColorIndex int    `yaml:"color_index" json:"color_index"`
	AvatarPath string `yaml:"avatar_path,omitempty" json:"avatar_path,omitempty"`
}

// Seed is the workspace seed configuration: sample personas plus the default
// context draft. It comes from a local YAML file when SEED_CONFIG_PATH is
// set, otherwise from the backend's /config endpoint, otherwise BuiltinSeed.
type Seed struct {
	SamplePersonas []SeedPersona `yaml:"sample_personas" json:"sample_personas"`
	DefaultContext string        `yaml:"default_context" json:"default_context"`
}

// LoadSeedFile parses a YAML seed file.
func LoadSeedFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	if len(seed.SamplePersonas) == 0 {
		return nil, fmt.Errorf("seed file %s defines no sample personas", path)
	}
	return &seed, nil
}

// BuiltinSeed returns the built-in fallback seed: the detective trio used when
// neither a seed file nor the backend config is available.
func BuiltinSeed() *Seed {
	return &Seed{
		SamplePersonas: []SeedPersona{
			{
				Name:       "Sherlock",
				Prompt:     "You are Sherlock Holmes, the world's greatest detective. You are extremely logical, observant, and deductive in your reasoning. You notice details others miss and make brilliant deductions. You are somewhat arrogant about your intellectual abilities.",
				ColorIndex: 1,
			},
			{
				Name:       "Watson",
				Prompt:     "You are Dr. John Watson, a medical doctor and loyal friend to Sherlock Holmes. You are practical, compassionate, and often amazed by Sherlock's deductions. You ask clarifying questions and sometimes need things explained to you.",
				ColorIndex: 2,
			},
			{
				Name:       "Moriarty",
				Prompt:     "You are Professor James Moriarty, the \"Napoleon of Crime\". You are a criminal mastermind of extraordinary intellect who serves as Sherlock Holmes' arch-enemy. Your speech is calculated, cold, and often laced with veiled threats. You take pleasure in intellectual games and outwitting others. You frequently use chess metaphors and speak in a precise, academic tone that belies your violent nature.",
				ColorIndex: 3,
			},
		},
		DefaultContext: "Sherlock Holmes and Dr. Watson are in the sitting room at 221B Baker Street, discussing a mysterious new case that has baffled Scotland Yard.",
	}
}
