// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"github.com/alvinbaena/pwd-meter/internal/config"
	"github.com/alvinbaena/pwd-meter/internal/pipeline"
	"github.com/alvinbaena/pwd-meter/internal/tui"
	"github.com/alvinbaena/pwd-meter/internal/util"
	"github.com/alvinbaena/pwd-meter/internal/view"
	"github.com/alvinbaena/pwd-meter/pkg/analysis"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
)

var (
	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Live meter that analyzes the password while you type",
		Long: "Opens a full screen meter. Every pause in typing sends the current password to the " +
			"evaluator, only the answer for the latest input is ever shown.\n\n" +
			"Keys: tab shows or hides the password, ctrl+r retries after a connection error, esc quits.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchCommand()
		},
	}
)

func init() {
	watchCmd.Flags().Duration("debounce", pipeline.DefaultDebounce, "Quiet time after the last keystroke before analyzing")
	watchCmd.Flags().Duration("animation", 0, "Duration of the count up animation of new results (default 550ms)")
	watchCmd.Flags().String("stale-policy", string(view.StaleDim),
		"What to do with the last result when the evaluator fails: dim keeps it dimmed under the error, hide removes it")
	watchCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file while the meter owns the terminal. Logs are discarded otherwise")
	bindFlag(watchCmd.Flags(), "debounce", config.KeyDebounce)
	bindFlag(watchCmd.Flags(), "animation", config.KeyAnimationDuration)
	bindFlag(watchCmd.Flags(), "stale-policy", config.KeyStaleResultPolicy)

	rootCmd.AddCommand(watchCmd)
}

func watchCommand() error {
	restore, err := redirectLogs(logFile)
	if err != nil {
		return err
	}
	defer restore()

	util.ApplyCliSettings(verbose, profile, pprofPort)

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	policy, err := view.ParseStalePolicy(cfg.StaleResultPolicy)
	if err != nil {
		return err
	}

	client, err := analysis.NewClient(analysis.Options{BaseURL: cfg.AnalyzerURL, Timeout: cfg.RequestTimeout})
	if err != nil {
		return err
	}

	pipe := pipeline.New(client, pipeline.Options{
		Debounce:            cfg.Debounce,
		ConnectivityMessage: cfg.ConnectivityMessage,
	})

	model := tui.New(pipe, tui.Options{StalePolicy: policy, AnimationDuration: cfg.AnimationDuration})
	defer model.Close()

	log.Info().Msgf("meter started against %s", cfg.AnalyzerURL)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err = p.Run(); err != nil {
		return fmt.Errorf("running meter: %w", err)
	}

	return nil
}

// redirectLogs moves the global logger away from the terminal, into fileName or nowhere. The
// returned func puts the previous logger back.
func redirectLogs(fileName string) (func(), error) {
	previous := log.Logger
	if fileName == "" {
		log.Logger = zerolog.Nop()
		return func() { log.Logger = previous }, nil
	}

	f, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}

	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return func() {
		log.Logger = previous
		_ = f.Close()
	}, nil
}
