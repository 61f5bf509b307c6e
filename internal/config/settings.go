package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	coremission "github.com/example/dutybot/internal/core/mission"
)

// Settings are the bot rules kept in configuration.json.
type Settings struct {
	OwnerID           UserID         `json:"owner_id" yaml:"owner_id"`
	ExperienceLevels  map[string]int `json:"experience_levels" yaml:"experience_levels"`
	MissionCategories []string       `json:"mission_categories" yaml:"mission_categories"`
}

// UserID accepts a platform id written either as a JSON number or a string.
type UserID string

func (u *UserID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*u = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("owner_id must be a number or string: %w", err)
	}
	*u = UserID(n.String())
	return nil
}

// DefaultSettings returns the rules used when no configuration file exists.
func DefaultSettings() *Settings {
	return &Settings{
		ExperienceLevels:  map[string]int{},
		MissionCategories: append([]string(nil), coremission.DefaultCategories...),
	}
}

// LoadSettings reads configuration from path. JSON files may carry
// comments and trailing commas; .yaml and .yml files are parsed as YAML.
// A missing file yields DefaultSettings.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	s, err := ParseSettings(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseSettings decodes configuration data. ext selects the format.
func ParseSettings(data []byte, ext string) (*Settings, error) {
	var s Settings
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if err := json.Unmarshal(jsonc.ToJSON(data), &s); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if s.ExperienceLevels == nil {
		s.ExperienceLevels = map[string]int{}
	}
	if len(s.MissionCategories) == 0 {
		s.MissionCategories = append([]string(nil), coremission.DefaultCategories...)
	}
	if _, err := s.Levels(); err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveSettings writes configuration as indented JSON.
func SaveSettings(path string, s *Settings) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Levels returns experience_levels keyed by level number.
func (s *Settings) Levels() (map[int]int, error) {
	out := make(map[int]int, len(s.ExperienceLevels))
	for k, v := range s.ExperienceLevels {
		level, err := strconv.Atoi(k)
		if err != nil || level < 0 {
			return nil, fmt.Errorf("experience_levels: invalid level %q", k)
		}
		if v < 0 {
			return nil, fmt.Errorf("experience_levels: level %d requires negative exp", level)
		}
		out[level] = v
	}
	return out, nil
}
