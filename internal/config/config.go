// Package config resolves runtime settings from flags, BLINKDO_* environment
// variables, an optional YAML file and built-in defaults, in that order.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"
)

const (
	AppName    = "blinkdo"
	EnvPrefix  = "BLINKDO"
	configName = "config"

	KeyDataDir              = "data_dir"
	KeyBackend              = "backend"
	KeyReminderInterval     = "reminder_interval"
	KeyDesktopNotifications = "desktop_notifications"
	KeyLogLevel             = "log_level"
	KeyNotificationTitle    = "notification_title"
)

var ErrInvalidBackend = errors.New("config: invalid backend")

type Runtime struct {
	DataDir              string        `mapstructure:"data_dir" yaml:"data_dir"`
	Backend              string        `mapstructure:"backend" yaml:"backend"`
	ReminderInterval     time.Duration `mapstructure:"reminder_interval" yaml:"reminder_interval"`
	DesktopNotifications bool          `mapstructure:"desktop_notifications" yaml:"desktop_notifications"`
	LogLevel             string        `mapstructure:"log_level" yaml:"log_level"`
	NotificationTitle    string        `mapstructure:"notification_title" yaml:"notification_title"`
}

func Default() Runtime {
	return Runtime{
		DataDir:              DefaultDataDir(),
		Backend:              "json",
		ReminderInterval:     10 * time.Second,
		DesktopNotifications: true,
		LogLevel:             "info",
		NotificationTitle:    "Task reminder",
	}
}

// DefaultDataDir is the per-user application data directory.
func DefaultDataDir() string {
	scope := gap.NewScope(gap.User, AppName)
	if dirs, err := scope.DataDirs(); err == nil && len(dirs) > 0 {
		return dirs[0]
	}
	if home, err := homedir.Dir(); err == nil {
		return filepath.Join(home, "."+AppName)
	}
	return "." + AppName
}

// DefaultConfigDir holds the optional config.yaml.
func DefaultConfigDir() string {
	scope := gap.NewScope(gap.User, AppName)
	if dirs, err := scope.ConfigDirs(); err == nil && len(dirs) > 0 {
		return dirs[0]
	}
	return DefaultDataDir()
}

// New returns a viper instance with defaults and environment binding in place.
// Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault(KeyDataDir, d.DataDir)
	v.SetDefault(KeyBackend, d.Backend)
	v.SetDefault(KeyReminderInterval, d.ReminderInterval)
	v.SetDefault(KeyDesktopNotifications, d.DesktopNotifications)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyNotificationTitle, d.NotificationTitle)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configFile, or config.yaml from the config directory when empty, and
// decodes the merged result. Only an explicitly named file must exist.
func Load(v *viper.Viper, configFile string) (Runtime, error) {
	if configFile != "" {
		path, err := homedir.Expand(configFile)
		if err != nil {
			return Runtime{}, fmt.Errorf("expand config path: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigDir())
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Runtime{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Runtime
	if err := v.Unmarshal(&cfg); err != nil {
		return Runtime{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg.normalize()
}

func (c Runtime) normalize() (Runtime, error) {
	d := Default()
	dir, err := homedir.Expand(strings.TrimSpace(c.DataDir))
	if err != nil {
		return Runtime{}, fmt.Errorf("expand data dir: %w", err)
	}
	if dir == "" {
		dir = d.DataDir
	}
	c.DataDir = dir

	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case "":
		c.Backend = d.Backend
	case "json", "sqlite":
	default:
		return Runtime{}, fmt.Errorf("%w: %q", ErrInvalidBackend, c.Backend)
	}

	if c.ReminderInterval <= 0 {
		c.ReminderInterval = d.ReminderInterval
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = d.LogLevel
	}
	if strings.TrimSpace(c.NotificationTitle) == "" {
		c.NotificationTitle = d.NotificationTitle
	}
	return c, nil
}
