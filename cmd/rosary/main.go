// Package main provides the rosary terminal client.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sacredrosary/rosary-server/internal/companion"
	"github.com/sacredrosary/rosary-server/internal/config"
	"github.com/sacredrosary/rosary-server/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the persistent flags shared by every subcommand.
type app struct {
	flags config.ClientFlags
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "rosary",
		Short:         "Pray the rosary from the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, printStatus)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.flags.DataDir, "data-dir", "", "device store directory (default: ~/.rosary/device)")
	pf.StringVar(&a.flags.Backend, "backend", "", "device store backend: badger, redis or memory")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&a.flags.RedisAddr, "redis-addr", "", "redis address for the redis backend")
	pf.StringVar(&a.flags.APIURL, "api-url", "", "rosary server base URL")
	pf.StringVar(&a.flags.UserID, "user", "", "signed-in user id; empty keeps records on this device")
	pf.StringVar(&a.flags.AudioDir, "audio-dir", "", "local audio directory; empty streams from the server")
	pf.StringVar(&a.flags.LoadTimeout, "load-timeout", "", "audio load timeout (default: 10s)")
	pf.StringVar(&a.flags.LoadRetries, "load-retries", "", "audio load retries (default: 2)")
	pf.StringVar(&a.flags.EnvFile, "env-file", "", "path to .env file")

	rootCmd.AddCommand(a.newStatusCmd())
	rootCmd.AddCommand(a.newNextCmd())
	rootCmd.AddCommand(a.newPrevCmd())
	rootCmd.AddCommand(a.newJumpCmd())
	rootCmd.AddCommand(a.newSectionCmd())
	rootCmd.AddCommand(a.newResetCmd())
	rootCmd.AddCommand(a.newIntentionsCmd())
	rootCmd.AddCommand(a.newPrayersCmd())
	rootCmd.AddCommand(a.newFontCmd())
	rootCmd.AddCommand(newSongsCmd())
	rootCmd.AddCommand(a.newListenCmd())

	return rootCmd
}

// run opens the companion for one command and closes it afterwards.
func (a *app) run(cmd *cobra.Command, fn func(context.Context, *cobra.Command, *companion.Companion) error) error {
	cfg, err := config.LoadClientConfig(a.flags)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(logger.Config{
		Writer:  cmd.ErrOrStderr(),
		Level:   logger.ParseLevel(cfg.LogLevel),
		NoColor: true,
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := companion.FromConfig(ctx, cfg, log.Logger)
	if err != nil {
		return fmt.Errorf("failed to open device state: %w", err)
	}
	defer func() {
		if cerr := c.Close(); cerr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "failed to close device state: %v\n", cerr)
		}
	}()
	return fn(ctx, cmd, c)
}
