package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"google.golang.org/api/option"

	"github.com/twystd/outreach"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), srv.Client(), nil, option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("Unexpected error creating Sheets client (%v)", err)
	}

	return client
}

func TestTitles(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v4/spreadsheets/abc" {
			http.NotFound(w, r)
			return
		}

		if fields := r.URL.Query().Get("fields"); fields != "sheets.properties.title" {
			t.Errorf("Incorrect fields - expected:%v, got:%v", "sheets.properties.title", fields)
		}

		fmt.Fprint(w, `{"sheets":[{"properties":{"title":"Leads"}},{"properties":{"title":"Q1 Leads"}}]}`)
	})

	titles, err := client.Titles(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Unexpected error returned from Titles (%v)", err)
	}

	expected := []string{"Leads", "Q1 Leads"}
	if !reflect.DeepEqual(titles, expected) {
		t.Errorf("Incorrect titles\n   expected: %v\n   got:      %v", expected, titles)
	}
}

func TestSheets(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if fields := r.URL.Query().Get("fields"); fields != "sheets.properties" {
			t.Errorf("Incorrect fields - expected:%v, got:%v", "sheets.properties", fields)
		}

		fmt.Fprint(w, `{"sheets":[{"properties":{"title":"SentLog","gridProperties":{"rowCount":2400}}},{"properties":{"title":"Archive"}}]}`)
	})

	list, err := client.Sheets(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Unexpected error returned from Sheets (%v)", err)
	}

	expected := []Sheet{
		{Title: "SentLog", RowCount: 2400},
		{Title: "Archive", RowCount: 0},
	}

	if !reflect.DeepEqual(list, expected) {
		t.Errorf("Incorrect sheets\n   expected: %v\n   got:      %v", expected, list)
	}
}

func TestValues(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v4/spreadsheets/abc/values/Leads!A:Z" {
			t.Errorf("Incorrect path %v", r.URL.Path)
		}

		fmt.Fprint(w, `{"range":"Leads!A1:Z3","majorDimension":"ROWS","values":[["Name","Email","Responded?"],["Ann","ann@example.com"],["Bob","bob@example.com","Yes", 12]]}`)
	})

	rows, err := client.Values(context.Background(), "abc", "Leads!A:Z")
	if err != nil {
		t.Fatalf("Unexpected error returned from Values (%v)", err)
	}

	expected := [][]string{
		{"Name", "Email", "Responded?"},
		{"Ann", "ann@example.com"},
		{"Bob", "bob@example.com", "Yes", "12"},
	}

	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("Incorrect values\n   expected: %v\n   got:      %v", expected, rows)
	}
}

func TestUpdate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("Incorrect method - expected:%v, got:%v", http.MethodPut, r.Method)
		}

		if r.URL.Path != "/v4/spreadsheets/abc/values/Leads!C7" {
			t.Errorf("Incorrect path %v", r.URL.Path)
		}

		if v := r.URL.Query().Get("valueInputOption"); v != "USER_ENTERED" {
			t.Errorf("Incorrect valueInputOption - expected:%v, got:%v", "USER_ENTERED", v)
		}

		body, _ := io.ReadAll(r.Body)
		rq := struct {
			Range          string     `json:"range"`
			MajorDimension string     `json:"majorDimension"`
			Values         [][]string `json:"values"`
		}{}

		if err := json.Unmarshal(body, &rq); err != nil {
			t.Fatalf("Invalid request body %s (%v)", body, err)
		}

		if rq.Range != "Leads!C7" || rq.MajorDimension != "ROWS" || !reflect.DeepEqual(rq.Values, [][]string{{"Yes"}}) {
			t.Errorf("Incorrect request body %s", body)
		}

		fmt.Fprint(w, `{"spreadsheetId":"abc","updatedRange":"Leads!C7","updatedCells":1}`)
	})

	if err := client.Update(context.Background(), "abc", "Leads!C7", "Yes"); err != nil {
		t.Fatalf("Unexpected error returned from Update (%v)", err)
	}
}

func TestHTTPErrorIsSurfacedVerbatim(t *testing.T) {
	body := `{"error":{"code":403,"message":"The caller does not have permission","status":"PERMISSION_DENIED"}}`

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, body)
	})

	_, err := client.Values(context.Background(), "abc", "Leads!A:Z")

	var herr *outreach.HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("Expected HTTPError, got %v", err)
	}

	if herr.Status != http.StatusForbidden {
		t.Errorf("Incorrect status - expected:%v, got:%v", http.StatusForbidden, herr.Status)
	}

	if herr.Body != body {
		t.Errorf("Incorrect body\n   expected: %v\n   got:      %v", body, herr.Body)
	}
}
