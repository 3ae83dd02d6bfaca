package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	googleauth "golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"

	"github.com/twystd/outreach"
)

// SHEETS is the read/write Google Sheets scope.
const SHEETS = sheets.SpreadsheetsScope

// OAuth2Config loads the OAuth2 client configuration from a 'credentials.json' file.
func OAuth2Config(credentials string, redirect string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentials)
	if err != nil {
		return nil, err
	}

	config, err := googleauth.ConfigFromJSON(b, SHEETS)
	if err != nil {
		return nil, err
	}

	if redirect != "" {
		config.RedirectURL = redirect
	}

	return config, nil
}

// Authorize returns an HTTP client using the token cached by the 'authorise' command.
// A missing or unreadable token is an AuthError.
func Authorize(ctx context.Context, credentials, tokens string) (*http.Client, error) {
	config, err := OAuth2Config(credentials, "")
	if err != nil {
		return nil, &outreach.AuthError{Err: fmt.Errorf("invalid credentials file %v (%w)", credentials, err)}
	}

	token, err := TokenFromFile(tokens)
	if err != nil {
		return nil, &outreach.AuthError{Err: fmt.Errorf("no usable Google token at %v - run 'authorise' first (%w)", tokens, err)}
	}

	return config.Client(ctx, token), nil
}

// TokenFromFile retrieves a token from a local file.
func TokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	token := oauth2.Token{}
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, err
	}

	return &token, nil
}

// SaveToken writes a token to a file, replacing any existing token atomically.
func SaveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token (%w)", err)
	}

	if err := json.NewEncoder(f).Encode(token); err != nil {
		f.Close()
		return err
	}

	f.Close()

	return os.Rename(tmp, path)
}
