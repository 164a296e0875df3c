package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem abstracts file lookups so resolution can be tested.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
	UserConfigDir() (string, error)
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads a .env file without overriding variables already set.
func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

func (rfs *RealFileSystem) UserConfigDir() (string, error) {
	return os.UserConfigDir()
}

// Resolver finds config and env files for a service.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns explicit paths when given, otherwise the first
// existing candidate from the search list. Empty means none found.
func (cr *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = cr.first(cr.configCandidates(serviceName))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = cr.first(envCandidates(serviceName))
	}
	return resolved
}

func (cr *Resolver) configCandidates(serviceName string) []string {
	paths := []string{
		"./" + serviceName + ".yml",
		"./config.yml",
		fmt.Sprintf("./cmd/%s/config.yml", serviceName),
		"./config/config.yml",
	}
	if dir, err := cr.FileSystem.UserConfigDir(); err == nil && dir != "" {
		paths = append(paths, filepath.Join(dir, serviceName, "config.yml"))
	}
	return paths
}

func envCandidates(serviceName string) []string {
	return []string{
		".env." + serviceName,
		".env",
		fmt.Sprintf("./cmd/%s/.env", serviceName),
		"./config/.env",
	}
}

func (cr *Resolver) first(paths []string) string {
	for _, p := range paths {
		if cr.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // explicit config file; must exist when set
	EnvFile    string // explicit .env file; must exist when set
	EnvPrefix  string // only variables with this prefix are bound
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix overrides the environment variable prefix. The default is
// the upper-cased service name, so "transcribe" binds TRANSCRIBE_*.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// LoadConfig loads configuration for a service into cfg. Sources are applied
// in order: YAML file, then environment variables (including those loaded from
// a .env file, which never override the real environment).
//
// TRANSCRIBE_POLLING_MAX_ATTEMPTS=10 sets polling.max_attempts.
func LoadConfig(serviceName string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{EnvPrefix: envPrefix(serviceName)}
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	for _, explicit := range []string{lc.ConfigFile, lc.EnvFile} {
		if explicit != "" && !lc.FileSystem.Exists(explicit) {
			return fmt.Errorf("config: %s not found", explicit)
		}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(serviceName, lc)
	return loadFromResolvedFiles(serviceName, cfg, files, lc)
}

func loadFromResolvedFiles(serviceName string, cfg any, files ResolvedFiles, lc LoaderConfig) error {
	v := viper.New()

	if files.ConfigFile != "" {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", files.ConfigFile, err)
		}
	}

	if files.EnvFile != "" {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			return fmt.Errorf("config: load %s: %w", files.EnvFile, err)
		}
	}
	bindEnvVars(v, lc.EnvPrefix, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

func envPrefix(serviceName string) string {
	return strings.ToUpper(strings.ReplaceAll(serviceName, "-", "_"))
}

// bindEnvVars sets every nesting variant of PREFIX_* variables on v, since
// an underscore may separate either sections or words within a key.
func bindEnvVars(v *viper.Viper, prefix string, environ []string) {
	if prefix != "" {
		prefix += "_"
	}
	for _, env := range environ {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		key, ok = strings.CutPrefix(key, prefix)
		if !ok || key == "" {
			continue
		}
		for _, variant := range generateEnvKeyVariants(key) {
			v.Set(variant, value)
		}
	}
}

// generateEnvKeyVariants creates the key variants an env var may map to.
// Examples:
//
//	API_AUTH_TOKEN -> [api_auth_token, api.auth.token, api.auth_token]
//	POLLING_MAX_ATTEMPTS -> [polling_max_attempts, polling.max.attempts, polling.max_attempts]
func generateEnvKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")

	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{
		lowerKey,
		strings.ReplaceAll(lowerKey, "_", "."),
	}

	// progressive nesting: a.b_c_d, a.b.c_d, ...
	for i := 1; i < len(parts); i++ {
		prefix := strings.Join(parts[:i], ".")
		suffix := strings.Join(parts[i:], "_")
		variants = append(variants, prefix+"."+suffix)
	}

	// leading words joined: a_b.c, a_b_c.d, ...
	for i := 1; i < len(parts)-1; i++ {
		variants = append(variants, strings.Join(parts[:i+1], "_")+"."+strings.Join(parts[i+1:], "."))
	}

	return removeDuplicates(variants)
}

func removeDuplicates(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}
