package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ConfigDirName  = ".hwp2hwpx"
	ConfigFileName = "config.yaml"
)

// Environment variables read on top of the file.
const (
	EnvLLM      = "HWP2HWPX_LLM" // true enables LLM formatting
	EnvProvider = "HWP2HWPX_PROVIDER"
	EnvModel    = "HWP2HWPX_MODEL"
)

// ErrExists is returned by Init when the file is already there.
var ErrExists = errors.New("config file already exists")

// ${NAME} only; a bare $ in a value is left alone.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Loader reads and writes one YAML config file.
type Loader struct {
	path string
}

// NewLoader uses ~/.hwp2hwpx/config.yaml.
func NewLoader() (*Loader, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewLoaderWithPath(filepath.Join(home, ConfigDirName, ConfigFileName)), nil
}

// NewLoaderWithPath uses an explicit file path.
func NewLoaderWithPath(path string) *Loader {
	return &Loader{path: path}
}

func (l *Loader) ConfigPath() string {
	return l.path
}

// Load reads the file with ${VAR} references expanded and defaults filled
// in. A missing file yields DefaultConfig.
func (l *Loader) Load() (*Config, error) {
	cfg, err := l.read(true)
	if err != nil {
		return nil, err
	}
	cfg.fillDefaults()
	return cfg, nil
}

// LoadRaw reads the file as written, for editing and display. API keys
// stay as ${VAR} references.
func (l *Loader) LoadRaw() (*Config, error) {
	return l.read(false)
}

func (l *Loader) read(expand bool) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(l.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		cfg = &Config{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", l.path, err)
		}
	}
	if expand {
		cfg.expandRefs()
	}
	return cfg, nil
}

// Save writes cfg atomically. The file may hold API keys, so it is created
// readable by the owner only.
func (l *Loader) Save(cfg *Config) error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+ConfigFileName+".*")
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (l *Loader) Exists() bool {
	_, err := os.Stat(l.path)
	return err == nil
}

// Init writes DefaultConfig. An existing file is kept unless force is set.
func (l *Loader) Init(force bool) error {
	if !force && l.Exists() {
		return fmt.Errorf("%w: %s", ErrExists, l.path)
	}
	return l.Save(DefaultConfig())
}

// expandRefs resolves ${NAME} in the provider settings, which is where
// keys and hosts are kept.
func (c *Config) expandRefs() {
	for name, p := range c.Providers {
		p.APIKey = expandEnvRefs(p.APIKey)
		p.Endpoint = expandEnvRefs(p.Endpoint)
		p.Model = expandEnvRefs(p.Model)
		c.Providers[name] = p
	}
}

// expandEnvRefs replaces ${NAME} with the variable's value, or nothing
// when it is unset.
func expandEnvRefs(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(m string) string {
		return os.Getenv(envRef.FindStringSubmatch(m)[1])
	})
}

// GetEnvOrDefault returns the variable's value, or def when it is empty.
func GetEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// GetEnvBool accepts true, 1 and yes in any case.
func GetEnvBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1", "yes":
		return true
	}
	return false
}
