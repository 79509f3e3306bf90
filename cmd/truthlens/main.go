package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/truthlens/truthlens/internal/api"
	"github.com/truthlens/truthlens/internal/config"
	"github.com/truthlens/truthlens/internal/debuglog"
	"github.com/truthlens/truthlens/internal/history"
	"github.com/truthlens/truthlens/internal/search"
	"github.com/truthlens/truthlens/internal/tui"
	"github.com/truthlens/truthlens/internal/validation"
)

// Version is set at build time
var Version = "dev"

var (
	flagConfigPath string
	flagBaseURL    string
	flagDBPath     string
	flagQuiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "truthlens",
	Short: "Terminal client for fake-news detection",
	Long:  "truthlens analyzes news articles against a detection backend and explains the verdict, word by word.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp()
	},
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("truthlens %s\n", Version)
		fmt.Println("Fake-news detection client")
		fmt.Println("github.com/truthlens/truthlens")
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the detection backend and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := api.NewClient(api.Config{
			BaseURL:       cfg.API.BaseURL,
			Timeout:       cfg.API.Timeout,
			HealthTimeout: cfg.API.HealthTimeout,
			UserAgent:     cfg.API.UserAgent,
		})
		status, err := client.Health(context.Background())
		if err != nil {
			return fmt.Errorf("backend unreachable at %s: %w", cfg.API.BaseURL, err)
		}
		fmt.Printf("backend:       %s\n", cfg.API.BaseURL)
		fmt.Printf("status:        %s\n", status.Status)
		fmt.Printf("model loaded:  %v\n", status.IsModelLoaded)
		if status.Version != "" {
			fmt.Printf("version:       %s\n", status.Version)
		}

		// The root endpoint carries extra diagnostics; shape varies by
		// backend version, so print whatever came back.
		if info, err := client.Info(context.Background()); err == nil {
			for _, k := range sortedKeys(info) {
				fmt.Printf("%-14s %v\n", k+":", info[k])
			}
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a default config file",
	Run: func(cmd *cobra.Command, args []string) {
		home, _ := os.UserHomeDir()
		configFile := filepath.Join(home, ".config", "truthlens", "config.toml")

		if err := config.GenerateDefaultConfig(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", configFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "url", "", "backend base URL (overrides config)")
	rootCmd.Flags().StringVar(&flagDBPath, "db", "", "path to history database (overrides config)")
	rootCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "skip the startup banner")

	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(versionCmd, healthCmd, configCmd)
}

func loadConfig() (*config.Config, error) {
	// A .env next to the binary can carry TRUTHLENS_* overrides; absence is
	// not an error.
	_ = godotenv.Load()

	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if flagBaseURL != "" {
		normalized, err := validation.ValidateBaseURL(flagBaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid --url: %w", err)
		}
		cfg.API.BaseURL = normalized
	}
	if flagDBPath != "" {
		cfg.History.Path = flagDBPath
	}

	return cfg, nil
}

func runApp() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: debug log unavailable: %v\n", err)
	}
	defer debuglog.Close()

	if !flagQuiet {
		showBanner()
	}

	client := api.NewClient(api.Config{
		BaseURL:       cfg.API.BaseURL,
		Timeout:       cfg.API.Timeout,
		HealthTimeout: cfg.API.HealthTimeout,
		UserAgent:     cfg.API.UserAgent,
	})

	// History and search are conveniences; the analyzer stays usable if
	// either fails to open.
	var store *history.Store
	var engine *search.Engine

	store, err = history.NewStore(cfg.History.Path, cfg.History.MaxEntries)
	if err != nil {
		debuglog.Warnf("history unavailable: %v", err)
		store = nil
	} else {
		defer store.Close()

		engine, err = search.NewEngine(store, cfg.History.SearchIndex)
		if err != nil {
			debuglog.Warnf("search index unavailable: %v", err)
			engine = nil
		} else {
			defer engine.Close()
		}
	}

	app := tui.NewApp(client, store, engine, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func showBanner() {
	var colored []string
	for i, line := range tui.LogoLines {
		style := lipgloss.NewStyle().
			Foreground(tui.BannerColors[i%len(tui.BannerColors)]).
			Bold(true)
		colored = append(colored, style.Render(line))
	}
	fmt.Println()
	for _, line := range colored {
		fmt.Println(line)
	}
	fmt.Println()
	fmt.Println(lipgloss.NewStyle().Foreground(tui.BannerColors[1]).Render("    Fake-news detection " + Version))
	fmt.Println()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
