package config

import (
	"errors"
	"fmt"

	"github.com/mochimo/mochiwallet-shell/pkg/kvstore/dbconfig"
	"go.uber.org/zap/zapcore"
)

// Defaults of the extension runtime identity.
const (
	DefaultExtensionID = "android-webview-mock"
	DefaultAssetRoot   = "file:///android_asset/"
)

// ApplicationConfiguration is the shell configuration.
type ApplicationConfiguration struct {
	// LogLevel is one of zap levels (debug, info, warn, error...).
	LogLevel string `yaml:"LogLevel"`
	// LogPath is a file logs are written to, stderr is used if empty.
	LogPath         string                   `yaml:"LogPath"`
	DBConfiguration dbconfig.DBConfiguration `yaml:"DBConfiguration"`
	// ExtensionID is reported by the runtime API.
	ExtensionID string `yaml:"ExtensionID"`
	// AssetRoot is the URL prefix of packaged wallet files.
	AssetRoot string `yaml:"AssetRoot"`
	// MobileHost is the "running inside the mobile host" marker published
	// to wallet code.
	MobileHost bool `yaml:"MobileHost"`
	// Prometheus exposes storage metrics over HTTP.
	Prometheus BasicService `yaml:"Prometheus"`
}

// Validate checks ApplicationConfiguration for internal consistency.
func (a *ApplicationConfiguration) Validate() error {
	if a.LogLevel != "" {
		if _, err := zapcore.ParseLevel(a.LogLevel); err != nil {
			return fmt.Errorf("invalid LogLevel: %w", err)
		}
	}
	switch a.DBConfiguration.Type {
	case dbconfig.InMemoryDB, dbconfig.LevelDB, dbconfig.BoltDB, dbconfig.BadgerDB:
	default:
		return fmt.Errorf("unknown DBConfiguration.Type: %q", a.DBConfiguration.Type)
	}
	if a.DBConfiguration.CacheSize < 0 {
		return fmt.Errorf("negative DBConfiguration.CacheSize: %d", a.DBConfiguration.CacheSize)
	}
	if a.Prometheus.Enabled && len(a.Prometheus.Addresses) == 0 {
		return errors.New("no Addresses given for enabled Prometheus service")
	}
	return nil
}
