// Package config provides the Skiff configuration loader.
// Config is loaded by merging skiff.yaml → ~/.skiff/config.yaml → SKIFF_* env vars.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	v1 "github.com/skiffd/skiff/api/v1"
	"github.com/skiffd/skiff/pkg/netutil"
)

// sensitiveKeyRegex matches config keys that should be redacted in log output.
var sensitiveKeyRegex = regexp.MustCompile(`(?i)(password|token|secret|key|passphrase)`)

// Defaults contains factory-default values applied before any config file is loaded.
var Defaults = map[string]any{
	"host.port":         22,
	"deploy.base_dir":   "/opt/deploy",
	"deploy.keep_hours": 72,
	"log.level":         "info",
	"log.format":        "text",
}

// ─────────────────────────────────────────────────────────────────────────────
// Config types
// ─────────────────────────────────────────────────────────────────────────────

// Config is the fully-decoded project configuration.
type Config struct {
	Version  string           `mapstructure:"version"`
	Project  ProjectConfig    `mapstructure:"project"`
	Host     HostConfig       `mapstructure:"host"`
	Deploy   DeployConfig     `mapstructure:"deploy"`
	Services []v1.ServiceSpec `mapstructure:"services"`
	Log      LogConfig        `mapstructure:"log"`
}

// ProjectConfig holds project-level metadata.
type ProjectConfig struct {
	Name string `mapstructure:"name"`
}

// HostConfig identifies the single deployment target.
type HostConfig struct {
	Address string `mapstructure:"address"` // ssh destination, may embed a user
	User    string `mapstructure:"user"`    // used when Address carries no user
	Key     string `mapstructure:"key"`     // private key path
	Port    int    `mapstructure:"port"`
}

// DeployConfig holds the remote layout and pruning policy.
type DeployConfig struct {
	BaseDir   string `mapstructure:"base_dir"`   // absolute remote root for service dirs
	KeepHours int    `mapstructure:"keep_hours"` // prune threshold in whole hours
}

// LogConfig controls logging behaviour.
type LogConfig struct {
	Level  string `mapstructure:"level"` // debug | info | warn | error
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format"` // json | text
}

// ─────────────────────────────────────────────────────────────────────────────
// Loader
// ─────────────────────────────────────────────────────────────────────────────

// Load discovers and loads the configuration, walking up directories to find
// skiff.yaml, then merging it with the global config and environment variables.
func Load(explicitPath string) (*Config, error) {
	v := viper.New()

	for k, val := range Defaults {
		v.SetDefault(k, val)
	}

	// Environment variable binding: SKIFF_LOG_LEVEL → log.level
	v.SetEnvPrefix("SKIFF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load global config (~/.skiff/config.yaml) if it exists
	globalCfg := filepath.Join(skiffHome(), "config.yaml")
	if _, err := os.Stat(globalCfg); err == nil {
		v.SetConfigFile(globalCfg)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read global config: %w", err)
		}
	}

	// Load project config. A file that was selected — explicitly or by
	// discovery — must parse; a malformed skiff.yaml is never silently
	// downgraded to factory defaults.
	projectCfg := explicitPath
	if projectCfg == "" {
		if path, err := discoverProjectConfig(); err == nil {
			projectCfg = path
		}
	}
	if projectCfg != "" {
		v.SetConfigFile(projectCfg)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("read project config %q: %w", projectCfg, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Resolve env variable placeholders in string values
	expandEnvInConfig(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// Target assembles the immutable RemoteTarget for this session.
func (c *Config) Target() v1.Target {
	return v1.Target{
		Project: c.Project.Name,
		Host:    c.Host.Address,
		User:    c.Host.User,
		Key:     c.Host.Key,
		Port:    c.Host.Port,
		BaseDir: c.Deploy.BaseDir,
	}
}

// ServiceByName returns the ServiceSpec with the given name, or nil.
func (c *Config) ServiceByName(name string) *v1.ServiceSpec {
	for i := range c.Services {
		if c.Services[i].Name == name {
			return &c.Services[i]
		}
	}
	return nil
}

// IsSensitiveKey returns true if key matches a known sensitive pattern.
func IsSensitiveKey(key string) bool {
	return sensitiveKeyRegex.MatchString(key)
}

// ─────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ─────────────────────────────────────────────────────────────────────────────

// discoverProjectConfig walks up from the CWD looking for skiff.yaml.
func discoverProjectConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, "skiff.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("skiff.yaml not found (searched up from the working directory)")
}

// expandEnvInConfig resolves ${VAR} placeholders in service environment values.
func expandEnvInConfig(cfg *Config) {
	for i := range cfg.Services {
		for k, v := range cfg.Services[i].Environment {
			cfg.Services[i].Environment[k] = os.ExpandEnv(v)
		}
	}
	cfg.Host.Key = os.ExpandEnv(cfg.Host.Key)
}

// validate performs semantic validation on the loaded config.
func validate(cfg *Config) error {
	if !filepath.IsAbs(cfg.Deploy.BaseDir) {
		return fmt.Errorf("deploy.base_dir must be an absolute remote path, got %q", cfg.Deploy.BaseDir)
	}
	if cfg.Deploy.KeepHours < 0 {
		return fmt.Errorf("deploy.keep_hours must not be negative")
	}

	seen := map[string]bool{}
	for _, svc := range cfg.Services {
		if svc.Name == "" {
			return fmt.Errorf("service with empty name is not allowed")
		}
		if !netutil.IsValidServiceName(svc.Name) {
			return fmt.Errorf("service name %q is not a valid unit name component", svc.Name)
		}
		if seen[svc.Name] {
			return fmt.Errorf("duplicate service name: %q", svc.Name)
		}
		seen[svc.Name] = true
		if svc.Command == "" {
			return fmt.Errorf("service %q: command is required", svc.Name)
		}
	}

	// requires entries must name services configured in the same project
	for _, svc := range cfg.Services {
		for _, dep := range svc.Requires {
			if !seen[dep] {
				return fmt.Errorf("service %q requires unknown service %q", svc.Name, dep)
			}
			if dep == svc.Name {
				return fmt.Errorf("service %q requires itself", svc.Name)
			}
		}
	}
	return nil
}

// skiffHome returns the Skiff home directory (~/.skiff).
func skiffHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".skiff"
	}
	return filepath.Join(home, ".skiff")
}

// SkiffHome is the exported variant for use by other packages.
func SkiffHome() string {
	return skiffHome()
}

// DefaultConfigTemplate is the content written by `skiff init`.
const DefaultConfigTemplate = `# skiff.yaml — Project manifest
version: "1"

project:
  name: my-project

host:
  address: deploy@192.168.7.2
  key: ~/.ssh/id_ed25519
  port: 22

deploy:
  base_dir: /opt/deploy
  keep_hours: 72

services:
  - name: app
    label: Main application
    command: ./bin/app
    args: ["--listen", ":8080"]
    environment:
      APP_ENV: production
    # requires:
    #   - worker
    # sync:
    #   - local: ./build
    #     remote: .
`
