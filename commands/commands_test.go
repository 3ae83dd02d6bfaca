package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/twystd/outreach"
	"github.com/twystd/outreach/google"
)

type update struct {
	spreadsheet string
	area        string
	value       string
}

// sheets fakes the Google Sheets API.
type sheets struct {
	titles  map[string][]string
	values  map[string][][]string
	updates []update
}

func (s *sheets) Titles(ctx context.Context, spreadsheetID string) ([]string, error) {
	if titles, ok := s.titles[spreadsheetID]; ok {
		return titles, nil
	}

	return nil, &outreach.HTTPError{Status: 404, Body: "Requested entity was not found."}
}

func (s *sheets) Sheets(ctx context.Context, spreadsheetID string) ([]google.Sheet, error) {
	list := []google.Sheet{}
	for _, title := range s.titles[spreadsheetID] {
		list = append(list, google.Sheet{
			Title:    title,
			RowCount: int64(len(s.values[spreadsheetID+"/"+title+"!A:Z"])),
		})
	}

	return list, nil
}

func (s *sheets) Values(ctx context.Context, spreadsheetID, area string) ([][]string, error) {
	if rows, ok := s.values[spreadsheetID+"/"+area]; ok {
		return rows, nil
	}

	return nil, &outreach.HTTPError{Status: 400, Body: fmt.Sprintf("Unable to parse range: %v", area)}
}

func (s *sheets) Update(ctx context.Context, spreadsheetID, area, value string) error {
	s.updates = append(s.updates, update{spreadsheetID, area, value})

	return nil
}

const configuration = `
spreadsheets:
  - id: master1
    name: Master 1
  - id: https://docs.google.com/spreadsheets/d/master2/edit#gid=0
    name: Master 2

calendly:
  enabled: true
  url: %v
`

func fixture() *sheets {
	return &sheets{
		titles: map[string][]string{
			"master1": {"Leads", "Q1 Leads"},
			"master2": {"Webinar"},
		},
		values: map[string][][]string{
			"master1/Leads!A:Z": {
				{"First Name", "Email", "Responded?"},
				{"Ann", "ann@example.com", "No"},
			},
			"master1/'Q1 Leads'!A:Z": {
				{"Email", "Notes", "Responded?"},
				{"carol@example.com", "", ""},
			},
			"master2/Webinar!A:Z": {
				{"Name", "Email", "Responded?"},
				{"Bob Smith", "bob@example.com", "Yes"},
			},
		},
	}
}

func setup(t *testing.T, api API, calendlyURL string) (*Options, *bytes.Buffer) {
	t.Helper()

	t.Setenv("OUTREACH_CALENDLY_TOKEN", "")
	t.Setenv("OUTREACH_GOOGLE_CREDENTIALS", "")

	workdir := t.TempDir()
	file := filepath.Join(workdir, APP+".yaml")

	require.NoError(t, os.WriteFile(file, []byte(fmt.Sprintf(configuration, calendlyURL)), 0o600))

	var out bytes.Buffer

	return &Options{
		Workdir: workdir,
		Out:     &out,
		sheets:  api,
	}, &out
}
