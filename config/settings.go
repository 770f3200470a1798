package config

import (
	"encoding/json"
	"fmt"

	"github.com/quasilyte/gdata"
)

// SavedSettings represents the player-local settings stored on disk.
// Unlike the mirrored constant tables these are free to differ per machine.
type SavedSettings struct {
	ServerAddress string `json:"serverAddress"`
	PlayerName    string `json:"playerName"`
}

// DefaultSettings returns the settings used when nothing is saved yet.
func DefaultSettings() *SavedSettings {
	return &SavedSettings{
		ServerAddress: "localhost:4430",
		PlayerName:    "drifter",
	}
}

var gdataManager *gdata.Manager

// InitSettings initializes the gdata manager for settings storage.
func InitSettings() error {
	m, err := gdata.Open(gdata.Config{
		AppName: "saltgrass",
	})
	if err != nil {
		return fmt.Errorf("open settings storage: %w", err)
	}
	gdataManager = m
	return nil
}

// LoadSettings loads settings from disk. Returns defaults when the storage
// is unavailable or nothing has been saved yet.
func LoadSettings() (*SavedSettings, error) {
	if gdataManager == nil {
		return DefaultSettings(), nil
	}

	data, err := gdataManager.LoadItem("settings")
	if err != nil {
		return DefaultSettings(), fmt.Errorf("load settings: %w", err)
	}
	if len(data) == 0 {
		// No saved settings yet, use defaults
		return DefaultSettings(), nil
	}

	var settings SavedSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("parse settings: %w", err)
	}

	return &settings, nil
}

// SaveSettings saves settings to disk.
func SaveSettings(s *SavedSettings) error {
	if gdataManager == nil {
		return nil
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("serialize settings: %w", err)
	}

	if err := gdataManager.SaveItem("settings", data); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
