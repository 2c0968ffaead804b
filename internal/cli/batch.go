// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"github.com/alvinbaena/pwd-meter/internal/audit"
	"github.com/alvinbaena/pwd-meter/internal/config"
	"github.com/alvinbaena/pwd-meter/internal/util"
	"github.com/alvinbaena/pwd-meter/pkg/analysis"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"os/signal"
	"syscall"
)

var (
	batchCmd = &cobra.Command{
		Use:   "batch",
		Short: "Audit a file of passwords, one per line",
		Long: "Sends every password in the file to the evaluator and prints a summary of the levels " +
			"and scores. Passwords are never printed, weak ones are reported by line number.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return batchCommand()
		},
	}
)

//goland:noinspection GoUnhandledErrorResult
func init() {
	batchCmd.Flags().StringVarP(&inputFile, "in-file", "i", "", "File with one password per line (required)")
	batchCmd.MarkFlagRequired("in-file")
	batchCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent requests to the evaluator. Defaults to twice the CPU count")
	batchCmd.Flags().IntVar(&batchRetries, "retries", 3, "Extra attempts when the evaluator fails with a retryable error")

	rootCmd.AddCommand(batchCmd)
}

func batchCommand() error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	client, err := analysis.NewClient(analysis.Options{
		BaseURL: cfg.AnalyzerURL,
		Timeout: cfg.RequestTimeout,
		Retries: batchRetries,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Msgf("auditing passwords in file %s, ^C to stop the process", inputFile)
	summary, err := audit.New(client, workers).AuditFile(ctx, inputFile)
	if summary != nil {
		if perr := summary.Print(os.Stdout); perr != nil {
			return perr
		}
	}

	return err
}
