package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset is a named set of tournament defaults, e.g. a club's usual beach cup.
type Preset struct {
	System            string `yaml:"system"`
	NumberOfCourts    int    `yaml:"number_of_courts"`
	SetsPerMatch      int    `yaml:"sets_per_match"`
	PointsPerSet      int    `yaml:"points_per_set"`
	PointsPerThirdSet int    `yaml:"points_per_third_set"`
	WinPoints         int    `yaml:"win_points"`
	LossPoints        int    `yaml:"loss_points"`
	Tiebreaker        string `yaml:"tiebreaker"`

	TeamsPerGroup   int    `yaml:"teams_per_group"`
	Seeding         string `yaml:"seeding"`
	AllowByes       bool   `yaml:"allow_byes"`
	FollowUp        string `yaml:"follow_up"`
	ThirdPlaceMatch bool   `yaml:"third_place_match"`
	SwissRounds     int    `yaml:"swiss_rounds"`

	StartTime          string `yaml:"start_time"`
	BreakMinutes       int    `yaml:"break_minutes"`
	BreakBetweenPhases int    `yaml:"break_between_phases"`
	AssignReferees     bool   `yaml:"assign_referees"`
}

type presetFile struct {
	Presets map[string]Preset `yaml:"presets"`
}

// LoadPresets reads presets from a YAML file. An empty path yields no presets.
func LoadPresets(path string) (map[string]Preset, error) {
	if path == "" {
		return map[string]Preset{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}
	return ParsePresets(data)
}

func ParsePresets(data []byte) (map[string]Preset, error) {
	var f presetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal presets: %w", err)
	}
	if f.Presets == nil {
		f.Presets = map[string]Preset{}
	}
	return f.Presets, nil
}
