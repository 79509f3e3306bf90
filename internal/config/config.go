package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	UI      UIConfig      `mapstructure:"ui"`
	History HistoryConfig `mapstructure:"history"`
	Keys    KeyConfig     `mapstructure:"keys"`
	Log     LogConfig     `mapstructure:"log"`
}

type APIConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	HealthTimeout time.Duration `mapstructure:"health_timeout"`
	UserAgent     string        `mapstructure:"user_agent"`
}

type UIConfig struct {
	Colors UIColors `mapstructure:"colors"`
	// TypingInterval is the delay between revealed explanation characters.
	TypingInterval time.Duration `mapstructure:"typing_interval"`
	// RotationInterval is how often the loading message cycles.
	RotationInterval time.Duration `mapstructure:"rotation_interval"`
	// BarDelay defers the probability-bar fill animation after the numbers
	// appear.
	BarDelay time.Duration `mapstructure:"bar_delay"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Fake      string `mapstructure:"fake"`
	Real      string `mapstructure:"real"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

type HistoryConfig struct {
	Path        string `mapstructure:"path"`
	MaxEntries  int    `mapstructure:"max_entries"`
	SearchIndex string `mapstructure:"search_index"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit     string `mapstructure:"quit"`
	Analyze  string `mapstructure:"analyze"`
	Reset    string `mapstructure:"reset"`
	Sample   string `mapstructure:"sample"`
	History  string `mapstructure:"history"`
	Search   string `mapstructure:"search"`
	Back     string `mapstructure:"back"`
	FullID   string `mapstructure:"full_id"`
	NextTab  string `mapstructure:"next_tab"`
	OpenItem string `mapstructure:"open_item"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	historyPath := filepath.Join(homeDir, ".truthlens.db")
	searchIndexPath := filepath.Join(homeDir, ".truthlens", "index.bleve")

	return &Config{
		API: APIConfig{
			BaseURL:       "http://localhost:8000",
			Timeout:       10 * time.Minute,
			HealthTimeout: 10 * time.Second,
			UserAgent:     "truthlens/1.0 (terminal client; github.com/truthlens/truthlens)",
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#7C3AED",
				Secondary: "#4ECDC4",
				Accent:    "#95E1D3",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Fake:      "#F87171",
				Real:      "#4ADE80",
				Error:     "#EF4444",
				Success:   "#10B981",
			},
			TypingInterval:   50 * time.Millisecond,
			RotationInterval: 30 * time.Second,
			BarDelay:         400 * time.Millisecond,
		},
		History: HistoryConfig{
			Path:        historyPath,
			MaxEntries:  200,
			SearchIndex: searchIndexPath,
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:     "q",
				Analyze:  "d",
				Reset:    "r",
				Sample:   "e",
				History:  "h",
				Search:   "s",
				Back:     "esc",
				FullID:   "i",
				NextTab:  "tab",
				OpenItem: "enter",
			},
		},
		Log: LogConfig{
			Level: "OFF",
			File:  "",
		},
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("api", cfg.API)
	v.SetDefault("ui", cfg.UI)
	v.SetDefault("history", cfg.History)
	v.SetDefault("keys", cfg.Keys)
	v.SetDefault("log", cfg.Log)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "truthlens")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("TRUTHLENS")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	return &config, nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.History.Path = expandPath(cfg.History.Path)
	cfg.History.SearchIndex = expandPath(cfg.History.SearchIndex)
	cfg.Log.File = expandPath(cfg.Log.File)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations as strings for TOML readability
	apiCfg := map[string]interface{}{
		"base_url":       config.API.BaseURL,
		"timeout":        config.API.Timeout.String(),
		"health_timeout": config.API.HealthTimeout.String(),
		"user_agent":     config.API.UserAgent,
	}

	uiCfg := map[string]interface{}{
		"colors":            config.UI.Colors,
		"typing_interval":   config.UI.TypingInterval.String(),
		"rotation_interval": config.UI.RotationInterval.String(),
		"bar_delay":         config.UI.BarDelay.String(),
	}

	v.Set("api", apiCfg)
	v.Set("ui", uiCfg)
	v.Set("history", config.History)
	v.Set("keys", config.Keys)
	v.Set("log", config.Log)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
