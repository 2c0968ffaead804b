// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"errors"
	"fmt"
	"github.com/alvinbaena/pwd-meter/internal/config"
	"github.com/alvinbaena/pwd-meter/internal/tui"
	"github.com/alvinbaena/pwd-meter/internal/util"
	"github.com/alvinbaena/pwd-meter/pkg/analysis"
	"github.com/alvinbaena/pwd-meter/pkg/animate"
	"github.com/benbjohnson/clock"
	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
)

var (
	checkCmd = &cobra.Command{
		Use:   "check [PASSWORD]",
		Short: "Analyze a single password, or many in an interactive session",
		Args: func(cmd *cobra.Command, args []string) error {
			if !interactive {
				if err := cobra.ExactArgs(1)(cmd, args); err != nil {
					return err
				}
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				// Dummy string
				return checkCommand(cmd.Context(), "")
			} else {
				return checkCommand(cmd.Context(), args[0])
			}
		},
	}
)

func init() {
	checkCmd.Flags().BoolVarP(&interactive, "interactive", "n", false, "Interactive mode. The password is typed masked and never lands in the shell history")
	checkCmd.Flags().BoolVar(&noAnimation, "no-animation", false, "Print the score right away instead of counting up to it")
	checkCmd.Flags().IntVar(&checkRetries, "retries", 0, "Extra attempts when the evaluator fails with a retryable error")

	rootCmd.AddCommand(checkCmd)
}

func checkCommand(ctx context.Context, password string) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	client, err := analysis.NewClient(analysis.Options{
		BaseURL: cfg.AnalyzerURL,
		Timeout: cfg.RequestTimeout,
		Retries: checkRetries,
	})
	if err != nil {
		return err
	}

	if !interactive {
		return analyzeAndPrint(ctx, client, cfg, password)
	}

	prompt := promptui.Prompt{
		Label: "Password",
		Mask:  '*',
		Validate: func(input string) error {
			if len(input) == 0 {
				return errors.New("please enter a password")
			}
			return nil
		},
	}

	log.Info().Msgf("Running interactive session. ^C to exit")
	if err = runInteractiveSession(ctx, prompt, client, cfg); err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			log.Info().Msgf("Goodbye")
		} else {
			log.Error().Err(err).Msgf("Error during interactive session")
		}
		// No return to avoid the default cobra error message
		return nil
	}

	return nil
}

func runInteractiveSession(ctx context.Context, prompt promptui.Prompt, client *analysis.Client, cfg config.Config) error {
	for {
		result, err := prompt.Run()
		if err != nil {
			return err
		}

		if err = analyzeAndPrint(ctx, client, cfg, result); err != nil {
			log.Error().Err(err).Msg("Error during analysis")
		}
	}
}

func analyzeAndPrint(ctx context.Context, client *analysis.Client, cfg config.Config, password string) error {
	res, err := client.Analyze(ctx, password)
	if err != nil {
		log.Debug().Err(err).Msg("analysis failed")
		return fmt.Errorf("%s (%w)", cfg.ConnectivityMessage, err)
	}

	if !noAnimation {
		counter := animate.NewCounter(0, cfg.AnimationDuration)
		err = animate.Play(ctx, clock.New(), &counter, animate.DefaultInterval, res.Percentage, func(frame string) {
			fmt.Printf("\rscore %s%%", frame)
		})
		fmt.Println()
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprintln(os.Stdout, tui.RenderResult(res, 0))
	return err
}
