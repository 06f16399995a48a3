package main

import (
	"fmt"

	"fullpicture/client"
	"fullpicture/config"
	"fullpicture/layout"
	"fullpicture/search"
	"fullpicture/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	tuiAPIURL   string
	tuiBalanced bool
)

// tuiCmd launches the terminal front-end
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse perspectives in the terminal",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Keep log lines out of the terminal UI
		if logFile == "" {
			logFile = "fullpicture-tui.log"
		}
		return rootCmd.PersistentPreRunE(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if tuiAPIURL != "" {
			cfg.APIURL = tuiAPIURL
		}
		return runTUI(cfg)
	},
}

func init() {
	tuiCmd.Flags().StringVar(&tuiAPIURL, "api-url", "", "Perspectives API base URL (default $API_URL or "+config.DefaultAPIURL+")")
	tuiCmd.Flags().BoolVar(&tuiBalanced, "balanced", false, "Start in the balanced single-column layout")
}

func runTUI(c config.Config) error {
	mode := layout.ModeGrouped
	if tuiBalanced {
		mode = layout.ModeBalanced
	}

	api := client.NewClient(c.APIURL)
	logger.Info("starting tui", zap.String("api_url", api.BaseURL()), zap.Stringer("mode", mode))

	m := tui.NewModel(api, tui.Options{
		Search: search.QueryOptions{
			Delay:        c.DebounceDelay,
			EmptyPolicy:  c.EmptyPolicy,
			DefaultQuery: c.DefaultQuery,
		},
		Mode:   mode,
		Logger: logger,
	})
	defer m.Close()

	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
