// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"github.com/alvinbaena/pwd-meter/internal/config"
	"github.com/alvinbaena/pwd-meter/pkg/analysis"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	rootCmd = &cobra.Command{
		Use:   "pwd-meter [COMMAND] [OPTIONS]",
		Short: "Measure password strength against the NIST SP 800-63B guidelines",
		Long: "Analyze passwords with a NIST SP 800-63B evaluator. The watch command is a live meter " +
			"that analyzes while you type, check and batch analyze passwords one shot, and serve " +
			"runs the evaluator itself.\n\n" +
			"Every option can also be set with a PWDMETER_ prefixed environment variable, " +
			"e.g. PWDMETER_ANALYZER_URL. Flags win over the environment.",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print more information on the processing")
	rootCmd.PersistentFlags().BoolVar(&profile, "profile", false, "Enable the profiling server (pprof) when running commands")
	rootCmd.PersistentFlags().Uint16Var(&pprofPort, "profile-port", 6060, "The port to use for the pprof server. Only used if the profile flag is set")

	rootCmd.PersistentFlags().String("analyzer-url", analysis.DefaultBaseURL, "Base URL of the evaluator")
	rootCmd.PersistentFlags().Duration("timeout", analysis.DefaultTimeout, "Time limit of a single analysis request")
	rootCmd.PersistentFlags().String("connectivity-message", "", "Message shown when the evaluator can't be reached")
	bindFlag(rootCmd.PersistentFlags(), "analyzer-url", config.KeyAnalyzerURL)
	bindFlag(rootCmd.PersistentFlags(), "timeout", config.KeyRequestTimeout)
	bindFlag(rootCmd.PersistentFlags(), "connectivity-message", config.KeyConnectivityMessage)
}

// bindFlag makes a flag override the configuration key. Only flags set on the command line do.
func bindFlag(flags *pflag.FlagSet, name, key string) {
	if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
		log.Panic().Err(err).Msgf("there is a programming error here.")
	}
}

func Execute() error {
	return rootCmd.Execute()
}
