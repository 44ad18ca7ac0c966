// cmd/estate-cli/root.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"estate-client/internal/app"
	"estate-client/internal/common/config"
	apperrors "estate-client/internal/common/errors"
	"estate-client/internal/common/logger"

	"github.com/spf13/cobra"
)

// cli holds what every subcommand shares. app is built lazily in the
// persistent pre-run so --help works without a config.
type cli struct {
	configPath  string
	logLevel    string
	sessionPath string
	jsonOut     bool

	app     *app.App
	metrics *app.MetricsServer
	out     io.Writer
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "estate-cli",
		Short:             "Browse, search and manage listings on the estate marketplace",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default: configs/config.yaml)")
	flags.StringVar(&c.logLevel, "log-level", "", "override logging.level")
	flags.StringVar(&c.sessionPath, "session-file", app.DefaultSessionPath(), "where the session token is kept between runs")
	flags.BoolVar(&c.jsonOut, "json", false, "print results as JSON")

	root.AddCommand(
		c.loginCommand(),
		c.signupCommand(),
		c.demoCommand(),
		c.logoutCommand(),
		c.whoamiCommand(),
		c.profileCommand(),
		c.listingsCommand(),
		c.uploadCommand(),
		c.favoritesCommand(),
		c.recommendCommand(),
		c.chatCommand(),
		c.contactCommand(),
		c.bookingsCommand(),
		c.notificationsCommand(),
		c.adminCommand(),
		c.valuateCommand(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	c.out = cmd.OutOrStdout()
	if c.app != nil {
		return nil
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}

	log := logger.NewStructured(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	log.Debug("Configuration loaded", map[string]interface{}{"config": fmt.Sprintf("%+v", cfg.Redacted())})

	a, err := app.New(cmd.Context(), cfg, log, app.Options{SessionPath: c.sessionPath})
	if err != nil {
		return err
	}
	c.app = a

	if cfg.Metrics.Enabled {
		c.metrics = app.NewMetricsServer(cfg.Metrics.Address, log)
		c.metrics.Start()
	}
	return nil
}

func (c *cli) loadConfig() (*config.Config, error) {
	if c.configPath != "" {
		return config.LoadFromFile(c.configPath)
	}
	return config.Load()
}

func (c *cli) teardown() {
	if c.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = c.metrics.Shutdown(ctx)
	}
	if c.app != nil {
		c.app.Close()
	}
}

// userMessage logs err once and returns the text shown to the user.
func (c *cli) userMessage(operation string, err error) string {
	if c.app == nil {
		return apperrors.UserMessage(err, err.Error())
	}
	return c.app.Reporter.Report(operation, err, "Something went wrong. Please try again.")
}

// persistSession writes the session token after login or logout.
func (c *cli) persistSession() {
	if err := c.app.SaveSession(); err != nil {
		c.app.Logger.Warn("Session not saved", map[string]interface{}{"error": err.Error()})
	}
}

func (c *cli) printJSON(v interface{}) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// emit prints v as JSON under --json, otherwise calls render.
func (c *cli) emit(v interface{}, render func()) error {
	if c.jsonOut {
		return c.printJSON(v)
	}
	render()
	return nil
}
