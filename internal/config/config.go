package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/usher/internal/output"
)

// FileName is the name of the configuration file inside Dir().
const FileName = "config.yaml"

// defaultScanDepth bounds the pubspec walk when detecting Flutter projects.
const defaultScanDepth = 5

// Config is usher's user configuration. All fields are optional; the zero
// config with defaults applied is fully functional.
type Config struct {
	SDK     SDKConfig     `yaml:"sdk"`
	Prompts PromptsConfig `yaml:"prompts"`
	Editor  EditorConfig  `yaml:"editor"`
	Scan    ScanConfig    `yaml:"scan"`
}

// SDKConfig points usher at explicit dart/flutter executables instead of
// resolving them on PATH.
type SDKConfig struct {
	DartPath    string `yaml:"dart_path"`
	FlutterPath string `yaml:"flutter_path"`
}

// PromptsConfig controls the activation prompt gate.
type PromptsConfig struct {
	// Disabled turns off all startup prompts and the DevTools notification.
	Disabled bool `yaml:"disabled"`
}

// EditorConfig describes the host editor.
type EditorConfig struct {
	// ExtensionsDir overrides where installed editor extensions are scanned.
	ExtensionsDir string `yaml:"extensions_dir"`
	// OpenCommand overrides the command used to open files ($VISUAL/$EDITOR
	// and the code CLI are tried when empty).
	OpenCommand string `yaml:"open_command"`
}

// ScanConfig tunes workspace scanning.
type ScanConfig struct {
	// MaxDepth bounds the directory walk when detecting Flutter projects.
	MaxDepth int `yaml:"max_depth"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{MaxDepth: defaultScanDepth},
	}
}

// Path returns the full path of the configuration file.
func Path() string {
	return filepath.Join(Dir(), FileName)
}

// Load reads the configuration file from Dir(). A missing file yields the
// default configuration.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads a configuration file from an explicit path.
// Missing file: defaults. Unparseable file: user error naming the path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, output.NewSystemErrorWithCause("failed to read config file: "+path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, output.NewUserError("failed to parse config file " + path + ": " + err.Error())
	}
	if cfg.Scan.MaxDepth <= 0 {
		cfg.Scan.MaxDepth = defaultScanDepth
	}
	return cfg, nil
}
