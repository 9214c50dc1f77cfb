package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"droneFoodOrdering/internal/app"
	"droneFoodOrdering/internal/config"
)

// cli carries what every subcommand needs once the root has run.
type cli struct {
	dev bool
	app *app.App
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "foodctl",
		Short:         "Order food and follow its drone delivery",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return c.close()
		},
	}
	root.PersistentFlags().BoolVar(&c.dev, "dev", false, "fall back to a local backend when API_BASE_URL is unset")

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.registerCmd(),
		c.whoamiCmd(),
		c.restaurantsCmd(),
		c.menuCmd(),
		c.cartCmd(),
		c.orderCmd(),
		c.profileCmd(),
		c.passwordCmd(),
		c.geocodeCmd(),
	)
	return root
}

func (c *cli) open() error {
	load := config.Load
	if c.dev {
		load = config.LoadWithDefaults
	}
	cfg, err := load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)
	logger.Debug("configuration loaded", "config", cfg.String())

	c.app, err = app.Open(cfg, logger)
	return err
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	if err := c.app.Close(); err != nil {
		log.Printf("close session db: %v", err)
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lv slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lv = slog.LevelDebug
	case "warn", "warning":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv}))
}
