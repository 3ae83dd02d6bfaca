package commands

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calendlyServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"resource":{"uri":"https://api.calendly.com/users/U1"}}`)
	})

	mux.HandleFunc("/event_types", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"collection":[{"uri":"https://api.calendly.com/event_types/ET1","name":"Intro call","active":true}]}`)
	})

	mux.HandleFunc("/scheduling_links", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"resource":{"booking_url":"https://calendly.com/d/xyz/intro-call"}}`)
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer pat-123" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"title":"Unauthenticated"}`)
			return
		}

		mux.ServeHTTP(w, r)
	}))

	t.Cleanup(srv.Close)

	return srv
}

func TestCalendlyLinkForLastMatch(t *testing.T) {
	srv := calendlyServer(t)
	options, out := setup(t, fixture(), srv.URL)

	calendly := Calendly{}
	require.NoError(t, calendly.token(context.Background(), options, "pat-123"))

	search := Search{sheet: "ALL"}
	require.NoError(t, search.Execute(context.Background(), options, "bob@example.com"))

	out.Reset()
	calendly.eventType = "intro CALL"
	require.NoError(t, calendly.link(context.Background(), options))

	assert.Equal(t, "https://calendly.com/d/xyz/intro-call?name=Bob+Smith&email=bob%40example.com\n", out.String())
}

func TestCalendlyLinkWithExplicitInvitee(t *testing.T) {
	srv := calendlyServer(t)
	options, out := setup(t, fixture(), srv.URL)
	t.Setenv("OUTREACH_CALENDLY_TOKEN", "pat-123")

	calendly := Calendly{
		eventType: "https://api.calendly.com/event_types/ET1",
		email:     "carol@example.com",
	}

	require.NoError(t, calendly.link(context.Background(), options))
	assert.Equal(t, "https://calendly.com/d/xyz/intro-call?email=carol%40example.com\n", out.String())
}

func TestCalendlyLinkWithUnknownEventType(t *testing.T) {
	srv := calendlyServer(t)
	options, _ := setup(t, fixture(), srv.URL)
	t.Setenv("OUTREACH_CALENDLY_TOKEN", "pat-123")

	calendly := Calendly{eventType: "Demo"}

	assert.Error(t, calendly.link(context.Background(), options))
}

func TestCalendlyWithoutToken(t *testing.T) {
	srv := calendlyServer(t)
	options, _ := setup(t, fixture(), srv.URL)

	calendly := Calendly{}

	assert.Error(t, calendly.eventTypes(context.Background(), options))
}

func TestSearchWithEventType(t *testing.T) {
	srv := calendlyServer(t)
	options, out := setup(t, fixture(), srv.URL)
	t.Setenv("OUTREACH_CALENDLY_TOKEN", "pat-123")

	cmd := Search{sheet: "ALL", eventType: "Intro call"}
	require.NoError(t, cmd.Execute(context.Background(), options, "ann@example.com"))

	assert.Contains(t, out.String(), "Scheduling link: https://calendly.com/d/xyz/intro-call?name=Ann&email=ann%40example.com")
}

func TestCalendlyEventTypes(t *testing.T) {
	srv := calendlyServer(t)
	options, out := setup(t, fixture(), srv.URL)

	calendly := Calendly{}
	require.NoError(t, calendly.token(context.Background(), options, "pat-123"))

	out.Reset()
	require.NoError(t, calendly.eventTypes(context.Background(), options))

	assert.Equal(t, fmt.Sprintf("%-32s %s\n", "Intro call", "https://api.calendly.com/event_types/ET1"), out.String())
}
