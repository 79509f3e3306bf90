package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:       "http://localhost:8000",
			Timeout:       5 * time.Second,
			HealthTimeout: 1 * time.Second,
			UserAgent:     "truthlens-test/1.0",
		},
		UI: UIConfig{
			Colors: defaultConfig().UI.Colors,
			// Fast timers keep tests snappy.
			TypingInterval:   time.Millisecond,
			RotationInterval: 10 * time.Millisecond,
			BarDelay:         time.Millisecond,
		},
		History: HistoryConfig{
			Path:       ":memory:",
			MaxEntries: 50,
		},
		Keys: defaultConfig().Keys,
		Log:  LogConfig{Level: "OFF"},
	}
}
