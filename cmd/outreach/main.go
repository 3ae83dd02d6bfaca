package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/twystd/outreach/commands"
)

var cli = []commands.Command{
	&commands.VersionCmd,
	&commands.AuthoriseCmd,
	&commands.SheetsCmd,
	&commands.SearchCmd,
	&commands.UpdateCmd,
	&commands.CalendlyCmd,
	&commands.TemplatesCmd,
}

var options = commands.Options{
	Debug:   false,
	Workdir: commands.DEFAULT_WORKDIR,
}

var root = &cobra.Command{
	Use:   commands.APP,
	Short: "Finds outreach contacts in Google Sheets and records their responses",
	Long: `outreach searches a set of Google Sheets for a contact by email, updates the
contact's 'Responded?' status and generates prefilled Calendly scheduling links.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if options.Debug {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}

		logger, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		options.Log = logger

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if options.Log != nil {
			_ = options.Log.Sync()
		}
	},
}

func main() {
	root.PersistentFlags().BoolVar(&options.Debug, "debug", options.Debug, "Enable debugging information")
	root.PersistentFlags().StringVar(&options.Config, "config", options.Config, "Configuration file (defaults to <workdir>/outreach.yaml)")
	root.PersistentFlags().StringVar(&options.Workdir, "workdir", options.Workdir, "Directory for working files (tokens, local store, etc)")

	for _, c := range cli {
		root.AddCommand(c.Command(&options))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "\n   ERROR: %v\n\n", err)
		cancel()
		os.Exit(1)
	}
}
