package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"v2browse/internal/errors"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the directory service the browser talks to out of the box.
const DefaultBaseURL = "https://v2minds-backend.onrender.com"

// Storage drivers
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Selection modes
const (
	// ModeAccumulate keeps selections from every visited directory, keyed by full path.
	ModeAccumulate = "accumulate"
	// ModeLegacy rebuilds the container from the current listing on every change.
	ModeLegacy = "legacy"
)

// Config represents the application configuration structure.
type Config struct {
	Service struct {
		BaseURL string        `yaml:"base_url"` // Directory service root
		Timeout time.Duration `yaml:"timeout"`  // Per-request timeout, 0 = transport default
	} `yaml:"service"`
	Storage struct {
		Driver string `yaml:"driver"` // file or sqlite
		Dir    string `yaml:"dir"`    // Where the container is kept
		Key    string `yaml:"key"`    // Storage key of the container blob
		Watch  bool   `yaml:"watch"`  // Reload when another process changes the container
	} `yaml:"storage"`
	Selection struct {
		Mode string `yaml:"mode"` // accumulate or legacy
	} `yaml:"selection"`
	UI struct {
		Theme     string `yaml:"theme"`      // default, light or dark
		StartPath string `yaml:"start_path"` // Path opened at startup
	} `yaml:"ui"`
	Server struct {
		Addr string `yaml:"addr"` // Listen address of the serve command
		Root string `yaml:"root"` // Directory served when no bucket is set
		CORS bool   `yaml:"cors"` // Allow cross-origin browsers
		S3   struct {
			Bucket   string `yaml:"bucket"`
			Prefix   string `yaml:"prefix"`
			Endpoint string `yaml:"endpoint"` // S3-compatible endpoint, e.g. MinIO
			Region   string `yaml:"region"`
		} `yaml:"s3"`
	} `yaml:"server"`
	Log struct {
		File  string `yaml:"file"`  // Log file of the full-screen front ends, empty = no log
		JSON  bool   `yaml:"json"`  // JSON log lines
		Debug bool   `yaml:"debug"` // Debug level
	} `yaml:"log"`
}

// Dir returns the v2browse config directory (~/.config/v2browse).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "v2browse"), nil
}

// LoadConfig loads configuration from the default location
// (~/.config/v2browse/config.yaml) and applies environment overrides.
func LoadConfig() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(filepath.Join(dir, "config.yaml"))
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.NewConfigError("error reading config file", path, errors.ConfigNotFound, err)
	}

	if err == nil {
		// Unmarshal over the defaults so unset fields keep their default values
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
		}
	}

	applyEnv(cfg, viper.New())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides values from V2BROWSE_* environment variables, e.g.
// V2BROWSE_SERVICE_BASE_URL or V2BROWSE_STORAGE_DRIVER.
func applyEnv(cfg *Config, v *viper.Viper) {
	v.SetEnvPrefix("V2BROWSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.IsSet("service.base_url") {
		cfg.Service.BaseURL = v.GetString("service.base_url")
	}
	if v.IsSet("service.timeout") {
		cfg.Service.Timeout = v.GetDuration("service.timeout")
	}
	if v.IsSet("storage.driver") {
		cfg.Storage.Driver = v.GetString("storage.driver")
	}
	if v.IsSet("storage.dir") {
		cfg.Storage.Dir = v.GetString("storage.dir")
	}
	if v.IsSet("storage.key") {
		cfg.Storage.Key = v.GetString("storage.key")
	}
	if v.IsSet("storage.watch") {
		cfg.Storage.Watch = v.GetBool("storage.watch")
	}
	if v.IsSet("selection.mode") {
		cfg.Selection.Mode = v.GetString("selection.mode")
	}
	if v.IsSet("ui.theme") {
		cfg.UI.Theme = v.GetString("ui.theme")
	}
	if v.IsSet("ui.start_path") {
		cfg.UI.StartPath = v.GetString("ui.start_path")
	}
	if v.IsSet("server.addr") {
		cfg.Server.Addr = v.GetString("server.addr")
	}
	if v.IsSet("server.root") {
		cfg.Server.Root = v.GetString("server.root")
	}
	if v.IsSet("server.s3.bucket") {
		cfg.Server.S3.Bucket = v.GetString("server.s3.bucket")
	}
	if v.IsSet("server.s3.endpoint") {
		cfg.Server.S3.Endpoint = v.GetString("server.s3.endpoint")
	}
	if v.IsSet("log.file") {
		cfg.Log.File = v.GetString("log.file")
	}
	if v.IsSet("log.debug") {
		cfg.Log.Debug = v.GetBool("log.debug")
	}
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Service.BaseURL = DefaultBaseURL
	cfg.Service.Timeout = 0 // rely on the transport, like the browser does

	cfg.Storage.Driver = DriverFile
	cfg.Storage.Key = "selectedContainer"
	cfg.Storage.Watch = true
	if dir, err := Dir(); err == nil {
		cfg.Storage.Dir = filepath.Join(dir, "state")
		cfg.Log.File = filepath.Join(dir, "v2browse.log")
	} else {
		cfg.Storage.Dir = ".v2browse"
	}

	cfg.Selection.Mode = ModeAccumulate

	cfg.UI.Theme = "default"
	cfg.UI.StartPath = ""

	cfg.Server.Addr = ":8080"
	cfg.Server.Root = "."
	cfg.Server.CORS = true

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	u, err := url.Parse(c.Service.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.NewConfigError("base url must be an absolute http(s) URL", "service.base_url", errors.InvalidConfig, err)
	}

	if c.Service.Timeout < 0 {
		return errors.NewConfigError("timeout must be >= 0", "service.timeout", errors.InvalidConfig, nil)
	}

	switch c.Storage.Driver {
	case DriverFile, DriverSQLite:
	default:
		return errors.NewConfigError(fmt.Sprintf("unknown storage driver %q", c.Storage.Driver), "storage.driver", errors.InvalidConfig, nil)
	}

	if c.Storage.Dir == "" {
		return errors.NewConfigError("storage directory is required", "storage.dir", errors.InvalidConfig, nil)
	}

	if strings.TrimSpace(c.Storage.Key) == "" {
		return errors.NewConfigError("storage key is required", "storage.key", errors.InvalidConfig, nil)
	}

	switch c.Selection.Mode {
	case ModeAccumulate, ModeLegacy:
	default:
		return errors.NewConfigError(fmt.Sprintf("unknown selection mode %q", c.Selection.Mode), "selection.mode", errors.InvalidConfig, nil)
	}

	if !isTheme(c.UI.Theme) {
		return errors.NewConfigError(fmt.Sprintf("unknown theme %q", c.UI.Theme), "ui.theme", errors.InvalidConfig, nil)
	}

	return nil
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// NewTestConfig creates a configuration for tests rooted at dir.
func NewTestConfig(baseURL, dir string) *Config {
	cfg := defaultConfig()
	cfg.Service.BaseURL = baseURL
	cfg.Storage.Dir = dir
	cfg.Storage.Watch = false
	cfg.Log.File = ""
	return cfg
}

// GetTheme returns a predefined theme palette by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary":  "213", // Purple
			"success":  "114", // Green
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "39",  // Blue
			"emphasis": "212", // Light Pink
			"border":   "213", // Purple
			"text":     "252",
		},
		"dark": {
			"primary":  "105", // Dark Blue
			"success":  "78",  // Dark Green
			"warning":  "214", // Dark Yellow
			"error":    "160", // Dark Red
			"info":     "33",  // Dark Blue
			"emphasis": "147", // Light Blue
			"border":   "105", // Dark Blue
			"text":     "250",
		},
		"light": {
			"primary":  "135", // Light Purple
			"success":  "28",  // Green
			"warning":  "130", // Brown-Yellow
			"error":    "160", // Red
			"info":     "25",  // Blue
			"emphasis": "90",  // Magenta
			"border":   "135", // Light Purple
			"text":     "235",
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["default"]
}

// ListThemes returns the available theme names.
func ListThemes() []string {
	return []string{"default", "light", "dark"}
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) string {
	themes := ListThemes()
	for i, t := range themes {
		if t == name {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}

func isTheme(name string) bool {
	for _, t := range ListThemes() {
		if t == name {
			return true
		}
	}
	return false
}
