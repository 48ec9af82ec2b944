package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the unified application configuration
type Config struct {
	RootDir string // directory holding note files
	FileExt string // note file extension, without the dot
	Editor  string // editor command for note editing
	Tag     string // taskwarrior tag kept in sync with note contents
}

// Settings represents the config file structure
type Settings struct {
	RootDir string `yaml:"root_dir,omitempty"`
	FileExt string `yaml:"file_ext,omitempty"`
	Editor  string `yaml:"editor,omitempty"`
	Tag     string `yaml:"tag,omitempty"`
}

// CLIFlags holds parsed CLI flags
type CLIFlags struct {
	RootDir string
	FileExt string
	Editor  string
}

// Load loads configuration with priority: CLI flags > env vars > config file > default
func Load(flags CLIFlags) (*Config, error) {
	defaultRoot, err := defaultRootDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		RootDir: defaultRoot,
		FileExt: "md",
		Editor:  defaultEditor(),
		Tag:     "tasknotes",
	}

	// Config file provides base values
	if configPath, err := getConfigPath(); err == nil {
		if settings, err := loadConfigFile(configPath); err == nil {
			if settings.RootDir != "" {
				cfg.RootDir = expandPath(settings.RootDir)
			}
			if settings.FileExt != "" {
				cfg.FileExt = settings.FileExt
			}
			if settings.Editor != "" {
				cfg.Editor = settings.Editor
			}
			if settings.Tag != "" {
				cfg.Tag = settings.Tag
			}
		}
	}

	// Priority 2: environment variables override the config file
	if v := os.Getenv("TASKNOTES_ROOT_DIR"); v != "" {
		cfg.RootDir = expandPath(v)
	}
	if v := os.Getenv("TASKNOTES_FILE_EXT"); v != "" {
		cfg.FileExt = v
	}
	if v := os.Getenv("TASKNOTES_TAG"); v != "" {
		cfg.Tag = v
	}

	// Priority 1: CLI flags override everything
	if flags.RootDir != "" {
		cfg.RootDir = expandPath(flags.RootDir)
	}
	if flags.FileExt != "" {
		cfg.FileExt = flags.FileExt
	}
	if flags.Editor != "" {
		cfg.Editor = flags.Editor
	}

	return cfg, nil
}

// defaultEditor resolves the editor the way most terminal tools do:
// $VISUAL, then $EDITOR, then vi.
func defaultEditor() string {
	if v := strings.TrimSpace(os.Getenv("VISUAL")); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("EDITOR")); v != "" {
		return v
	}
	return "vi"
}

func defaultRootDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".taskn"), nil
}

// getConfigPath returns the path to the configuration file
func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "tasknotes", "config.yaml"), nil
}

// loadConfigFile loads configuration from the settings file
func loadConfigFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}

// EnsureConfigFile creates the config file with defaults if it doesn't exist
func EnsureConfigFile() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	defaultRoot, err := defaultRootDir()
	if err != nil {
		return err
	}

	settings := Settings{
		RootDir: defaultRoot,
		FileExt: "md",
		Tag:     "tasknotes",
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
