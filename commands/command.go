package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/twystd/outreach/calendly"
	"github.com/twystd/outreach/config"
	"github.com/twystd/outreach/directory"
	"github.com/twystd/outreach/google"
	"github.com/twystd/outreach/lookup"
	"github.com/twystd/outreach/sentlog"
	"github.com/twystd/outreach/store"
)

const APP = "outreach"

// VERSION is set at build time with -ldflags "-X github.com/twystd/outreach/commands.VERSION=..."
var VERSION = "v0.1.0"

// Command is implemented by every CLI command.
type Command interface {
	Name() string
	Description() string
	Usage() string
	Command(options *Options) *cobra.Command
}

// Options holds the global command line options shared by all commands.
type Options struct {
	Debug   bool
	Config  string
	Workdir string

	Log *zap.Logger
	Out io.Writer

	sheets API
}

// API is the Google Sheets surface used by the commands.
type API interface {
	Titles(ctx context.Context, spreadsheetID string) ([]string, error)
	Sheets(ctx context.Context, spreadsheetID string) ([]google.Sheet, error)
	Values(ctx context.Context, spreadsheetID, area string) ([][]string, error)
	Update(ctx context.Context, spreadsheetID, area, value string) error
}

func (o *Options) workdir() string {
	if o.Workdir != "" {
		return o.Workdir
	}

	return DEFAULT_WORKDIR
}

func (o *Options) logger() *zap.Logger {
	if o.Log != nil {
		return o.Log
	}

	return zap.NewNop()
}

func (o *Options) stdout() io.Writer {
	if o.Out != nil {
		return o.Out
	}

	return os.Stdout
}

func (o *Options) printf(format string, args ...any) {
	fmt.Fprintf(o.stdout(), format, args...)
}

// getConfig loads the configuration file, filling in the workdir relative defaults for
// the Google credentials and token files.
func getConfig(options *Options) (*config.Config, error) {
	file := options.Config
	if file == "" {
		file = filepath.Join(options.workdir(), APP+".yaml")
	}

	debugf(options, "loading configuration from %v", file)

	cfg, err := config.Load(file)
	if err != nil {
		return nil, err
	}

	if cfg.Google.Credentials == "" && options.workdir() == DEFAULT_WORKDIR {
		cfg.Google.Credentials = DEFAULT_CREDENTIALS
	} else if cfg.Google.Credentials == "" {
		cfg.Google.Credentials = filepath.Join(options.workdir(), ".google", "credentials.json")
	}

	if cfg.Google.Tokens == "" {
		_, name := filepath.Split(cfg.Google.Credentials)
		name = strings.TrimSuffix(name, filepath.Ext(name))
		cfg.Google.Tokens = filepath.Join(options.workdir(), ".google", fmt.Sprintf("%s.sheets", name))
	}

	return cfg, nil
}

func getStore(options *Options) (*store.SQLiteStore, error) {
	path := filepath.Join(options.workdir(), APP+".db")

	s, err := store.NewSQLiteStore(path)
	if err != nil {
		return nil, fmt.Errorf("Unable to open local store %v (%w)", path, err)
	}

	return s, nil
}

func getSheets(ctx context.Context, options *Options, cfg *config.Config) (API, error) {
	if options.sheets != nil {
		return options.sheets, nil
	}

	client, err := google.Authorize(ctx, cfg.Google.Credentials, cfg.Google.Tokens)
	if err != nil {
		return nil, err
	}

	return google.NewClient(ctx, client, options.logger())
}

// getSession loads the sheet directory and creates a lookup session over it, with the
// SentLog fast path if it is enabled.
func getSession(ctx context.Context, options *Options, cfg *config.Config, api API) (*lookup.Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("Invalid configuration (%w)", err)
	}

	infof(options, "loading sheets from %v spreadsheets", len(cfg.Spreadsheets))

	d, err := directory.Load(ctx, api, cfg.Spreadsheets, options.logger())
	if err != nil {
		return nil, err
	}

	var fastpath lookup.FastPath
	if cfg.SentLog.Enabled {
		fastpath = sentlog.NewResolver(api, cfg.SentLog, options.logger())
	}

	return lookup.NewSession(api, d, cfg.Statuses, fastpath, options.logger()), nil
}

// getCalendly creates a Calendly client with the token from the environment or, failing
// that, the token saved with 'calendly token'.
func getCalendly(ctx context.Context, options *Options, cfg *config.Config, s *store.SQLiteStore) (*calendly.Client, error) {
	if !cfg.Calendly.Enabled {
		return nil, fmt.Errorf("Calendly integration is disabled")
	}

	token := cfg.Calendly.Token
	if token == "" {
		t, err := s.CalendlyToken(ctx)
		if err != nil {
			return nil, err
		}

		token = t
	}

	return calendly.NewClient(ctx, cfg.Calendly.URL, token, options.logger())
}

func debugf(options *Options, format string, args ...any) {
	options.logger().Sugar().Debugf(format, args...)
}

func infof(options *Options, format string, args ...any) {
	options.logger().Sugar().Infof(format, args...)
}

func warnf(options *Options, format string, args ...any) {
	options.logger().Sugar().Warnf(format, args...)
}
