package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the outreach configuration.
type Config struct {
	// Spreadsheets searched for contacts, in search order
	Spreadsheets []Spreadsheet `yaml:"spreadsheets"`

	// SentLog fast path
	SentLog SentLogConfig `yaml:"sentlog"`

	// Calendly integration
	Calendly CalendlyConfig `yaml:"calendly"`

	// Allowed values for the 'Responded?' column
	Statuses []string `yaml:"statuses"`

	// Google OAuth2 files
	Google GoogleConfig `yaml:"google"`
}

// Spreadsheet identifies a searched spreadsheet. ID may be a bare spreadsheet ID or a
// docs.google.com URL.
type Spreadsheet struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// SentLogConfig configures the 'SentLog' fast path lookup.
type SentLogConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Spreadsheet string `yaml:"spreadsheet"`
	Sheet       string `yaml:"sheet"`
	Window      int    `yaml:"window"` // number of most recent rows scanned
}

// CalendlyConfig configures the Calendly scheduling link generator.
type CalendlyConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Token   string `yaml:"-"` // OUTREACH_CALENDLY_TOKEN only, never read from file
}

// GoogleConfig locates the OAuth2 client credentials and the cached token.
type GoogleConfig struct {
	Credentials string `yaml:"credentials"`
	Tokens      string `yaml:"tokens"`
	Redirect    string `yaml:"redirect"`
}

var urlRegex = regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`)

// DefaultConfig returns the configuration used when no configuration file exists.
func DefaultConfig() *Config {
	return &Config{
		Spreadsheets: []Spreadsheet{},
		SentLog: SentLogConfig{
			Enabled: false,
			Sheet:   "SentLog",
			Window:  1500,
		},
		Calendly: CalendlyConfig{
			Enabled: true,
			URL:     "https://api.calendly.com",
		},
		Statuses: []string{"Yes", "No", "Follow Up", "Booked", "Not Interested"},
		Google: GoogleConfig{
			Redirect: "http://localhost:8765",
		},
	}
}

// Load reads the YAML configuration file at path over the defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		bytes, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config (%w)", err)
		} else if err == nil {
			if err := yaml.Unmarshal(bytes, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s (%w)", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()

	for i, s := range cfg.Spreadsheets {
		cfg.Spreadsheets[i].ID = SpreadsheetID(s.ID)
		if strings.TrimSpace(s.Name) == "" {
			cfg.Spreadsheets[i].Name = cfg.Spreadsheets[i].ID
		}
	}

	cfg.SentLog.Spreadsheet = SpreadsheetID(cfg.SentLog.Spreadsheet)

	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	bytes, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, bytes, 0o600)
}

// Validate checks the settings needed before any sheet can be searched.
func (c *Config) Validate() error {
	if len(c.Spreadsheets) == 0 {
		return fmt.Errorf("no spreadsheets configured")
	}

	for _, s := range c.Spreadsheets {
		if s.ID == "" {
			return fmt.Errorf("spreadsheet '%s' has no ID", s.Name)
		}
	}

	if c.SentLog.Enabled {
		if c.SentLog.Spreadsheet == "" {
			return fmt.Errorf("sentlog is enabled but no sentlog spreadsheet is configured")
		}

		if strings.TrimSpace(c.SentLog.Sheet) == "" {
			return fmt.Errorf("sentlog is enabled but no sentlog sheet is configured")
		}

		if c.SentLog.Window <= 0 {
			return fmt.Errorf("invalid sentlog window (%v)", c.SentLog.Window)
		}
	}

	if len(c.Statuses) == 0 {
		return fmt.Errorf("no statuses configured")
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("OUTREACH_CALENDLY_TOKEN")); v != "" {
		c.Calendly.Token = v
	}

	if v := strings.TrimSpace(os.Getenv("OUTREACH_GOOGLE_CREDENTIALS")); v != "" {
		c.Google.Credentials = v
	}
}

// SpreadsheetID extracts the spreadsheet ID from a docs.google.com URL. Anything else is
// returned trimmed but otherwise unchanged.
func SpreadsheetID(v string) string {
	v = strings.TrimSpace(v)
	if match := urlRegex.FindStringSubmatch(v); len(match) > 1 {
		return match[1]
	}

	return v
}
