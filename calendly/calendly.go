package calendly

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/twystd/outreach"
)

// DefaultURL is the Calendly v2 API base URL.
const DefaultURL = "https://api.calendly.com"

// Client is a minimal Calendly API client authenticated with a personal access token.
type Client struct {
	base string
	http *http.Client
	log  *zap.Logger
}

// EventType is a bookable Calendly event type.
type EventType struct {
	URI    string `json:"uri"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// NewClient creates a client for the API at base (DefaultURL if empty). The token is sent
// as a bearer token on every request.
func NewClient(ctx context.Context, base string, token string, log *zap.Logger) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, &outreach.AuthError{Err: fmt.Errorf("Calendly token missing.")}
	}

	if base == "" {
		base = DefaultURL
	}

	if log == nil {
		log = zap.NewNop()
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: strings.TrimSpace(token),
		TokenType:   "Bearer",
	})

	return &Client{
		base: strings.TrimSuffix(base, "/"),
		http: oauth2.NewClient(ctx, source),
		log:  log,
	}, nil
}

// Me returns the URI of the user that owns the token.
func (c *Client) Me(ctx context.Context) (string, error) {
	response := struct {
		Resource struct {
			URI string `json:"uri"`
		} `json:"resource"`
	}{}

	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &response); err != nil {
		return "", fmt.Errorf("Failed to fetch Calendly user (%w)", err)
	}

	return response.Resource.URI, nil
}

// EventTypes returns the active event types of a user.
func (c *Client) EventTypes(ctx context.Context, user string) ([]EventType, error) {
	response := struct {
		Collection []EventType `json:"collection"`
	}{}

	path := "/event_types?user=" + url.QueryEscape(user)
	if err := c.do(ctx, http.MethodGet, path, nil, &response); err != nil {
		return nil, fmt.Errorf("Failed to fetch Event Types (%w)", err)
	}

	list := []EventType{}
	for _, et := range response.Collection {
		if et.Active {
			list = append(list, et)
		}
	}

	return list, nil
}

// CreateLink creates a single-use scheduling link for an event type and returns its
// booking URL. Every call creates a new link.
func (c *Client) CreateLink(ctx context.Context, eventType string) (string, error) {
	request := struct {
		MaxEventCount int    `json:"max_event_count"`
		Owner         string `json:"owner"`
		OwnerType     string `json:"owner_type"`
	}{
		MaxEventCount: 1,
		Owner:         eventType,
		OwnerType:     "EventType",
	}

	response := struct {
		Resource struct {
			BookingURL string `json:"booking_url"`
		} `json:"resource"`
	}{}

	if err := c.do(ctx, http.MethodPost, "/scheduling_links", request, &response); err != nil {
		return "", err
	}

	if response.Resource.BookingURL == "" {
		return "", fmt.Errorf("Calendly response did not include a booking URL")
	}

	return response.Resource.BookingURL, nil
}

// Generate creates a single-use scheduling link and prefills the invitee's name and
// email.
func (c *Client) Generate(ctx context.Context, eventType, name, email string) (string, error) {
	link, err := c.CreateLink(ctx, eventType)
	if err != nil {
		return "", err
	}

	return Prefill(link, strings.TrimSpace(name), strings.TrimSpace(email)), nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, reply any) error {
	var rq io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}

		rq = bytes.NewReader(b)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.base+path, rq)
	if err != nil {
		return err
	}

	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("calendly request", zap.String("method", method), zap.String("path", path))

	response, err := c.http.Do(request)
	if err != nil {
		return err
	}

	defer response.Body.Close()

	b, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return &outreach.HTTPError{
			Status: response.StatusCode,
			Body:   string(b),
		}
	}

	if err := json.Unmarshal(b, reply); err != nil {
		return fmt.Errorf("invalid Calendly response (%w)", err)
	}

	return nil
}
