package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the name of the project-level config file.
const ConfigFileName = "idegen.toml"

// ConfigDirName is the name of the project-level config directory.
const ConfigDirName = ".idegen"

// GlobalConfigDir is the name of the global config directory inside user's config.
const GlobalConfigDir = "idegen"

// Load loads configuration from all layers in order of precedence:
//  1. Built-in defaults
//  2. Global user config (~/.config/idegen/config.toml)
//  3. Project config (.idegen/config.toml or idegen.toml)
//  4. Environment variables (IDEGEN_*)
//
// CLI flags are applied separately after Load() returns.
func Load() *Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return LoadFrom(wd)
}

// LoadFrom loads configuration starting from a specific directory.
func LoadFrom(dir string) *Config {
	cfg := NewConfig()

	if globalCfg := loadGlobalConfig(); globalCfg != nil {
		cfg.Merge(globalCfg)
	}
	if projectCfg := loadProjectConfigFrom(dir); projectCfg != nil {
		cfg.Merge(projectCfg)
	}
	applyEnvironmentVariables(cfg)

	return cfg
}

// loadGlobalConfig loads the global user configuration.
func loadGlobalConfig() *Config {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return loadConfigFile(filepath.Join(configDir, GlobalConfigDir, "config.toml"))
}

// loadProjectConfigFrom looks for project configuration starting from the
// given directory, searching upward to the workspace root.
func loadProjectConfigFrom(dir string) *Config {
	current := dir
	for {
		if cfg := loadConfigFile(filepath.Join(current, ConfigDirName, "config.toml")); cfg != nil {
			return cfg
		}
		if cfg := loadConfigFile(filepath.Join(current, ConfigFileName)); cfg != nil {
			return cfg
		}

		if IsWorkspaceRoot(current) {
			break
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return nil
}

// IsWorkspaceRoot checks if the directory is a workspace root (has .git,
// WORKSPACE, or MODULE.bazel).
func IsWorkspaceRoot(dir string) bool {
	markers := []string{".git", "WORKSPACE", "WORKSPACE.bazel", "MODULE.bazel"}
	for _, marker := range markers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// FindWorkspaceRoot walks upward from dir to the nearest workspace root.
// It returns dir itself when no marker is found.
func FindWorkspaceRoot(dir string) string {
	current := dir
	for {
		if IsWorkspaceRoot(current) {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			return dir
		}
		current = parent
	}
}

// loadConfigFile loads a configuration from a TOML file.
func loadConfigFile(path string) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil
	}
	return &cfg
}

// applyEnvironmentVariables applies IDEGEN_* environment variables.
func applyEnvironmentVariables(cfg *Config) {
	if v := os.Getenv("IDEGEN_PROJECT_NAME"); v != "" {
		cfg.Project.Name = v
	}
	if v := os.Getenv("IDEGEN_WORKDIR"); v != "" {
		cfg.Project.WorkDir = v
	}
	if v := os.Getenv("IDEGEN_DEBUG_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Project.DebugPort = port
		}
	}
	applyBoolEnv("IDEGEN_INTRANSITIVE", &cfg.Project.Intransitive)
	applyBoolEnv("IDEGEN_JAVA", &cfg.JVM.Java)
	applyBoolEnv("IDEGEN_SCALA", &cfg.JVM.Scala)
	applyBoolEnv("IDEGEN_PYTHON", &cfg.Python.Enabled)
}

// applyBoolEnv applies a boolean environment variable to a pointer.
func applyBoolEnv(envVar string, target **bool) {
	v := strings.ToLower(os.Getenv(envVar))
	switch v {
	case "true", "1", "yes":
		t := true
		*target = &t
	case "false", "0", "no":
		f := false
		*target = &f
	}
}

// GetGlobalConfigPath returns the path to the global config file.
func GetGlobalConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, GlobalConfigDir, "config.toml")
}
