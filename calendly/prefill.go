package calendly

import (
	"net/url"
	"strings"
)

// Prefill appends the non-empty name and email to a booking URL as query parameters,
// in that order. A parameter the URL already carries is left as is.
func Prefill(link string, name string, email string) string {
	existing := url.Values{}
	if ix := strings.Index(link, "?"); ix != -1 {
		if q, err := url.ParseQuery(link[ix+1:]); err == nil {
			existing = q
		}
	}

	params := []string{}
	for _, p := range []struct{ key, value string }{{"name", name}, {"email", email}} {
		if p.value != "" && !existing.Has(p.key) {
			params = append(params, p.key+"="+url.QueryEscape(p.value))
		}
	}

	if len(params) == 0 {
		return link
	}

	separator := "?"
	if strings.Contains(link, "?") {
		separator = "&"
	}

	return link + separator + strings.Join(params, "&")
}
