package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Archive ArchiveConfig `mapstructure:"archive"`
	Storage StorageConfig `mapstructure:"storage"`
	Player  PlayerConfig  `mapstructure:"player"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ArchiveConfig holds remote archive configuration
type ArchiveConfig struct {
	SearchURL   string `mapstructure:"search_url"`   // advancedsearch endpoint
	MetadataURL string `mapstructure:"metadata_url"` // metadata endpoint
	DownloadURL string `mapstructure:"download_url"` // file download base
	MaxRetries  int    `mapstructure:"max_retries"`  // per-request retry budget
	TimeoutSecs int    `mapstructure:"timeout_secs"` // per-request timeout
	Format      string `mapstructure:"format"`       // preferred audio format
}

// StorageConfig holds local storage paths
type StorageConfig struct {
	DownloadDir string `mapstructure:"download_dir"` // where audio files land
	CacheDB     string `mapstructure:"cache_db"`     // song cache database file
}

// PlayerConfig holds media player configuration
type PlayerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Archive: ArchiveConfig{
			SearchURL:   "https://archive.org/advancedsearch.php",
			MetadataURL: "https://archive.org/metadata",
			DownloadURL: "https://archive.org/download",
			MaxRetries:  3,
			TimeoutSecs: 10,
			Format:      "mp3",
		},
		Storage: StorageConfig{
			DownloadDir: filepath.Join(defaultDataPath(), "downloads"),
			CacheDB:     filepath.Join(defaultDataPath(), "tapedeck.db"),
		},
		Player: PlayerConfig{
			Command: "mpv",
			Args:    []string{},
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "tapedeck.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "tapedeck")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "tapedeck")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "tapedeck")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "tapedeck")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("TAPEDECK")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("archive.search_url", cfg.Archive.SearchURL)
	viper.Set("archive.metadata_url", cfg.Archive.MetadataURL)
	viper.Set("archive.download_url", cfg.Archive.DownloadURL)
	viper.Set("archive.max_retries", cfg.Archive.MaxRetries)
	viper.Set("archive.timeout_secs", cfg.Archive.TimeoutSecs)
	viper.Set("archive.format", cfg.Archive.Format)

	viper.Set("storage.download_dir", cfg.Storage.DownloadDir)
	viper.Set("storage.cache_db", cfg.Storage.CacheDB)

	viper.Set("player.command", cfg.Player.Command)
	viper.Set("player.args", cfg.Player.Args)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
