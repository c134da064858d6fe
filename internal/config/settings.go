// Package config handles loading and saving application settings.
//
// Settings are stored as YAML under the user's config directory. Loading
// merges the file over the defaults so settings added in later releases pick
// up their default values on old config files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/c0lornote/c0lornote/internal/errors"
)

// AppDirName is the directory under the user config dir holding all state.
const AppDirName = "c0lornote"

// Backend selects the persistence adapter.
type Backend string

const (
	BackendJSON   Backend = "json"
	BackendSQLite Backend = "sqlite"
)

// Settings holds all persisted application settings.
type Settings struct {
	// Storage
	StorageBackend Backend `yaml:"storage_backend"`
	DataDir        string  `yaml:"data_dir"`

	// Application behavior
	AutosaveIntervalSeconds int  `yaml:"autosave_interval"`
	ConfirmOnDelete         bool `yaml:"confirm_on_delete"`
	ShowTimestamps          bool `yaml:"show_timestamps"`
	RichTextEditing         bool `yaml:"rich_text_editing"`

	// Backups
	EnableBackups   bool   `yaml:"enable_backups"`
	BackupDirectory string `yaml:"backup_directory"`
	MaxBackups      int    `yaml:"max_backups"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Presentation settings carried for the GUI front ends; the core only
	// loads and saves them.
	Theme            string `yaml:"theme"`
	DarkMode         bool   `yaml:"dark_mode"`
	NoteFontFamily   string `yaml:"note_font_family"`
	NoteFontSize     int    `yaml:"note_font_size"`
	EditorFontFamily string `yaml:"editor_font_family"`
	EditorFontSize   int    `yaml:"editor_font_size"`
}

// DefaultDir returns the application config directory, typically
// ~/.config/c0lornote.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrConfig, "cannot determine config directory", err)
	}
	return filepath.Join(base, AppDirName), nil
}

// Defaults returns the default settings rooted at dir.
func Defaults(dir string) *Settings {
	return &Settings{
		StorageBackend:          BackendJSON,
		DataDir:                 dir,
		AutosaveIntervalSeconds: 300,
		ConfirmOnDelete:         true,
		ShowTimestamps:          true,
		RichTextEditing:         true,
		EnableBackups:           true,
		BackupDirectory:         filepath.Join(dir, "backups"),
		MaxBackups:              5,
		LogLevel:                "info",
		Theme:                   "minimalist",
		NoteFontFamily:          "DejaVu Sans",
		NoteFontSize:            11,
		EditorFontFamily:        "DejaVu Sans Mono",
		EditorFontSize:          12,
	}
}

// Path returns the settings file path inside dir.
func Path(dir string) string {
	return filepath.Join(dir, "settings.yaml")
}

// Load reads settings from dir, merged over the defaults. A missing file is
// not an error: the defaults are returned as-is. An unreadable or malformed
// file is reported, with the defaults returned so the caller stays usable.
func Load(dir string) (*Settings, error) {
	settings := Defaults(dir)

	data, err := os.ReadFile(Path(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return Defaults(dir), errors.Wrap(errors.ErrConfig, "cannot read settings file", err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return Defaults(dir), errors.Wrap(errors.ErrConfig, "malformed settings file", err)
	}
	if err := settings.validate(); err != nil {
		return Defaults(dir), err
	}
	return settings, nil
}

// Save writes settings to dir atomically (temp file, then rename).
func Save(dir string, settings *Settings) error {
	if err := settings.validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrConfig, "cannot create config directory", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return errors.Wrap(errors.ErrConfig, "cannot encode settings", err)
	}

	tmp, err := os.CreateTemp(dir, "settings-*.yaml")
	if err != nil {
		return errors.Wrap(errors.ErrConfig, "cannot create temp settings file", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrConfig, "cannot write settings", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrConfig, "cannot write settings", err)
	}
	if err := os.Rename(tmpName, Path(dir)); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrConfig, "cannot replace settings file", err)
	}
	return nil
}

func (s *Settings) validate() error {
	switch s.StorageBackend {
	case BackendJSON, BackendSQLite:
	default:
		return errors.Newf(errors.ErrConfig, "unknown storage backend: %q", s.StorageBackend)
	}
	if s.AutosaveIntervalSeconds < 0 {
		return errors.Newf(errors.ErrConfig, "autosave_interval must not be negative: %d", s.AutosaveIntervalSeconds)
	}
	if s.MaxBackups < 0 {
		return errors.Newf(errors.ErrConfig, "max_backups must not be negative: %d", s.MaxBackups)
	}
	return nil
}

// String describes where the settings live, for status messages.
func (s *Settings) String() string {
	return fmt.Sprintf("backend=%s data_dir=%s", s.StorageBackend, s.DataDir)
}
