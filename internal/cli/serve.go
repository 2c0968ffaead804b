// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"github.com/alvinbaena/pwd-meter/internal/api"
	"github.com/alvinbaena/pwd-meter/internal/config"
	"github.com/alvinbaena/pwd-meter/internal/evaluator"
	"github.com/alvinbaena/pwd-meter/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/likexian/selfca"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/net/context"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var (
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the NIST SP 800-63B evaluator API",
		Long: "Runs the evaluator the other commands talk to. POST /analyze (and /v1/analyze) with " +
			"{\"password\": \"...\"} returns the analysis. Plain HTTP unless a certificate is set or " +
			"--self-tls is used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCommand()
		},
	}
)

func init() {
	serveCmd.Flags().Bool("self-tls", false,
		"If the server should use a self-signed certificate when starting. The certificate is renewed on each server restart")
	serveCmd.Flags().String("tls-cert", "", "Path to the PEM encoded TLS certificate to be used by the server")
	serveCmd.Flags().String("tls-key", "", "Path to the PEM encoded TLS private key to be used by the server")
	serveCmd.Flags().Uint16P("port", "p", 8000, "Port to be used by the server")
	serveCmd.Flags().String("blocklist", "", "YAML file with the blocked passwords, keyboard walks and context words. Defaults to the built in list")
	serveCmd.Flags().Int64("cache-entries", 10000, "Results kept in memory, 0 disables the cache")
	bindFlag(serveCmd.Flags(), "self-tls", config.KeySelfTLS)
	bindFlag(serveCmd.Flags(), "tls-cert", config.KeyTLSCert)
	bindFlag(serveCmd.Flags(), "tls-key", config.KeyTLSKey)
	bindFlag(serveCmd.Flags(), "port", config.KeyPort)
	bindFlag(serveCmd.Flags(), "blocklist", config.KeyBlocklistFile)
	bindFlag(serveCmd.Flags(), "cache-entries", config.KeyCacheEntries)

	rootCmd.AddCommand(serveCmd)
}

func serveCommand() error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	cfg, err := config.LoadServer(viper.GetViper())
	if err != nil {
		return err
	}

	if !verbose && !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	blocklist, err := evaluator.LoadBlocklist(cfg.BlocklistFile)
	if err != nil {
		return fmt.Errorf("error loading blocklist: %w", err)
	}

	eval, err := evaluator.New(evaluator.Options{Blocklist: blocklist, CacheEntries: cfg.CacheEntries})
	if err != nil {
		return fmt.Errorf("error initializing evaluator: %w", err)
	}
	defer eval.Close()

	p := message.NewPrinter(language.English)
	log.Info().Msgf("evaluator ready, caching up to %s results", p.Sprintf("%d", cfg.CacheEntries))

	srvAddr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              srvAddr,
		Handler:           api.NewRouter(eval),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if cfg.TLSCert != "" && cfg.TLSKey != "" {
			log.Info().Msgf("starting TLS Server on address: %s", srvAddr)
			// service connections with tls certs
			if err := srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("error starting server")
			}
		} else if cfg.SelfTLS {
			log.Info().Msgf("starting TLS Server on address: %s", srvAddr)
			log.Warn().Msgf("using auto self-signed certificate for TLS. This is not recommended for production. Please consider using your own certificates.")
			pair, err := selfSignedPair()
			if err != nil {
				log.Fatal().Err(err).Msg("error using auto self-signed certificate")
			}

			srv.TLSConfig = &tls.Config{
				Certificates: []tls.Certificate{pair},
			}

			// service connections with tls config, no need to pass files
			if err = srv.ListenAndServeTLS("", ""); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("error starting server")
			}
		} else {
			log.Info().Msgf("starting Server on address: %s", srvAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("error starting server")
			}
		}
	}()

	gracefulShutdown(srv)
	return nil
}

func selfSignedPair() (tls.Certificate, error) {
	caConfig := selfca.Certificate{
		IsCA:      true,
		KeySize:   2048,
		NotBefore: time.Now(),
		// 30 day self-signed cert.
		NotAfter: time.Now().Add(time.Duration(30*24) * time.Hour),
	}

	// generating the certificate
	certificate, key, err := selfca.GenerateCertificate(caConfig)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("error generating auto self-signed certificate: %w", err)
	}

	return tls.X509KeyPair(
		pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certificate}),
		pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}),
	)
}

func gracefulShutdown(srv *http.Server) {
	// Wait for interrupt signal to gracefully shut down the server with
	// a timeout.
	quit := make(chan os.Signal, 1)
	// kill (no param) default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall. SIGKILL but can't be a catch, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("server Shutdown.")
	}
	log.Info().Msg("server exiting...")
}
