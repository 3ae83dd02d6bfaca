package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/twystd/outreach/google"
)

var AuthoriseCmd = Authorise{
	credentials: "",
	browser:     true,
}

type Authorise struct {
	credentials string
	browser     bool
}

func (cmd *Authorise) Name() string {
	return "authorise"
}

func (cmd *Authorise) Description() string {
	return "Authorises outreach to read and update the configured Google Sheets"
}

func (cmd *Authorise) Usage() string {
	return "[--credentials <file>] [--browser=false]"
}

func (cmd *Authorise) Command(options *Options) *cobra.Command {
	c := &cobra.Command{
		Use:   cmd.Name(),
		Short: cmd.Description(),
		Long: `Runs the Google OAuth2 consent flow and caches the access token in the
working directory. The consent page redirects to a temporary server on the
configured loopback address (default http://localhost:8765).

Example:
  outreach authorise --credentials ~/Downloads/credentials.json`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Execute(c.Context(), options)
		},
	}

	c.Flags().StringVar(&cmd.credentials, "credentials", cmd.credentials, "Path for the 'credentials.json' file")
	c.Flags().BoolVar(&cmd.browser, "browser", cmd.browser, "Opens the consent page in the default browser")

	return c
}

func (cmd *Authorise) Execute(ctx context.Context, options *Options) error {
	cfg, err := getConfig(options)
	if err != nil {
		return err
	}

	if cmd.credentials != "" {
		cfg.Google.Credentials = cmd.credentials
	}

	config, err := google.OAuth2Config(cfg.Google.Credentials, cfg.Google.Redirect)
	if err != nil {
		return fmt.Errorf("Unable to load OAuth2 credentials %v (%w)", cfg.Google.Credentials, err)
	}

	token, err := cmd.authenticate(ctx, options, config)
	if err != nil {
		return fmt.Errorf("Authorisation error (%w)", err)
	}

	if err := google.SaveToken(cfg.Google.Tokens, token); err != nil {
		return err
	}

	infof(options, "saved Google token to %v", cfg.Google.Tokens)
	options.printf("Authorised\n")

	return nil
}

// authenticate runs the consent flow against a server on the redirect address and
// exchanges the returned authorisation code for a token.
func (cmd *Authorise) authenticate(ctx context.Context, options *Options, config *oauth2.Config) (*oauth2.Token, error) {
	redirect, err := url.Parse(config.RedirectURL)
	if err != nil || redirect.Host == "" {
		return nil, fmt.Errorf("invalid redirect URL '%v'", config.RedirectURL)
	}

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, err
	}

	state := uuid.NewString()
	authorised := make(chan string, 1)
	failed := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, rq *http.Request) {
		if rq.FormValue("state") != state {
			http.Error(w, "Invalid state token", http.StatusBadRequest)
			return
		}

		if e := rq.FormValue("error"); e != "" {
			http.Error(w, "Authorisation declined", http.StatusForbidden)
			select {
			case failed <- fmt.Errorf("%v", e):
			default:
			}
			return
		}

		code := rq.FormValue("code")
		if code == "" {
			http.Error(w, "Missing authorisation code", http.StatusBadRequest)
			return
		}

		fmt.Fprintln(w, "Authorised - you can close this window.")

		select {
		case authorised <- code:
		default:
		}
	})

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	defer srv.Shutdown(context.Background())

	uri := config.AuthCodeURL(state, oauth2.AccessTypeOffline)

	options.printf("Open the following URL to authorise access to your sheets:\n\n  %v\n\n", uri)
	if cmd.browser {
		if err := exec.Command(OPEN, uri).Start(); err != nil {
			warnf(options, "could not open authorisation page in your browser (%v)", err)
		}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()

	case err := <-failed:
		return nil, err

	case code := <-authorised:
		return config.Exchange(ctx, code)
	}
}
