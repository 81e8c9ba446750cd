package storage

import (
	"errors"
	"fmt"
	"os"
	"time"

	"lockedflow/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	TargetEnabled    bool   `yaml:"target_enabled"`
	TargetMinutes    int    `yaml:"target_minutes"`
	TickIntervalMs   int    `yaml:"tick_interval_ms"`
	IdlePauseEnabled bool   `yaml:"idle_pause_enabled"`
	IdlePauseMinutes int    `yaml:"idle_pause_minutes"`
	RestoreOnStart   bool   `yaml:"restore_on_start"`
	JournalEnabled   bool   `yaml:"journal_enabled"`
	StatusAddress    string `yaml:"status_address"`
}

// LoadSettings reads user preferences from YAML.
// If the settings file does not exist, default settings are returned.
func (store *Store) LoadSettings() (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(store.path(settingsFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func (store *Store) SaveSettings(settings preferences.Settings) error {
	fileData := yamlSettings{
		TargetEnabled:    settings.TargetEnabled,
		TargetMinutes:    int(settings.TargetDuration / time.Minute),
		TickIntervalMs:   int(settings.TickInterval / time.Millisecond),
		IdlePauseEnabled: settings.IdlePauseEnabled,
		IdlePauseMinutes: int(settings.IdlePauseAfter / time.Minute),
		RestoreOnStart:   settings.RestoreOnStart,
		JournalEnabled:   settings.JournalEnabled,
		StatusAddress:    settings.StatusAddress,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	return store.write(settingsFileName, serialized)
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.TargetMinutes > 0 {
		settings.TargetDuration = time.Duration(fileData.TargetMinutes) * time.Minute
	}
	if tick := time.Duration(fileData.TickIntervalMs) * time.Millisecond; preferences.ValidTickInterval(tick) {
		settings.TickInterval = tick
	}
	if fileData.IdlePauseMinutes > 0 {
		settings.IdlePauseAfter = time.Duration(fileData.IdlePauseMinutes) * time.Minute
	}

	settings.TargetEnabled = fileData.TargetEnabled
	settings.IdlePauseEnabled = fileData.IdlePauseEnabled
	settings.RestoreOnStart = fileData.RestoreOnStart
	settings.JournalEnabled = fileData.JournalEnabled
	settings.StatusAddress = fileData.StatusAddress
}
