package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig is the application configuration, loaded from config.toml next
// to the executable with environment overrides.
type AppConfig struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Upload  UploadConfig  `toml:"upload"`
	Session SessionConfig `toml:"session"`
	AI      AIConfig      `toml:"ai"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig holds storage locations.
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// UploadConfig bounds report uploads.
type UploadConfig struct {
	MaxBytes   int64 `toml:"max_bytes"`
	SampleRows int   `toml:"sample_rows"`
}

// SessionConfig bounds the parse-confirm window.
type SessionConfig struct {
	TTLMinutes int `toml:"ttl_minutes"`
}

// AIConfig controls the optional column suggestion service.
type AIConfig struct {
	Enabled bool   `toml:"enabled"`
	Model   string `toml:"model"`
}

// DefaultConfig returns the configuration used when no config.toml exists.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    8430,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Upload: UploadConfig{
			MaxBytes:   10 * 1024 * 1024,
			SampleRows: 5,
		},
		Session: SessionConfig{
			TTLMinutes: 15,
		},
		AI: AIConfig{
			Enabled: false,
			Model:   "gemini-2.0-flash",
		},
	}
}

// GetExeDir returns the directory of the running executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig loads config.toml from the executable's directory, falling back
// to defaults when the file is absent.
func LoadConfig() (*AppConfig, error) {
	cfg := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("LIKHA_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LIKHA_DATA_DIR"); v != "" {
		cfg.Data.DataDir = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.AI.Enabled = true
	}
}

// EnsureDataDir creates the data directory next to the executable and
// returns its path.
func EnsureDataDir(cfg *AppConfig) (string, error) {
	dataDir := cfg.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// SessionTTL returns the configured session window.
func (c *AppConfig) SessionTTL() int {
	if c.Session.TTLMinutes <= 0 {
		return 15
	}
	return c.Session.TTLMinutes
}
