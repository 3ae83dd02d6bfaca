package directory

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/twystd/outreach/config"
)

// ALL is the synthetic selection that searches every loaded sheet.
const ALL = "ALL"

// Titles is implemented by the Sheets client.
type Titles interface {
	Titles(ctx context.Context, spreadsheetID string) ([]string, error)
}

// SheetRef identifies one searchable worksheet.
type SheetRef struct {
	SpreadsheetID string
	SheetName     string
	Source        string
}

func (r SheetRef) String() string {
	return fmt.Sprintf("%s/%s", r.Source, r.SheetName)
}

// Option is a selectable directory entry.
type Option struct {
	Value string
	Label string
	Group string
}

// Directory is the flattened list of all worksheets across the configured
// spreadsheets, in configuration order.
type Directory struct {
	Sheets []SheetRef
}

// Load fetches the worksheet titles of every configured spreadsheet. A spreadsheet that
// cannot be fetched is logged and skipped. It is an error only if no sheets are found at
// all.
func Load(ctx context.Context, api Titles, spreadsheets []config.Spreadsheet, log *zap.Logger) (*Directory, error) {
	if log == nil {
		log = zap.NewNop()
	}

	d := Directory{
		Sheets: []SheetRef{},
	}

	for _, s := range spreadsheets {
		titles, err := api.Titles(ctx, s.ID)
		if err != nil {
			log.Warn("failed to load spreadsheet", zap.String("spreadsheet", s.Name), zap.Error(err))
			continue
		}

		log.Debug("loaded spreadsheet", zap.String("spreadsheet", s.Name), zap.Int("sheets", len(titles)))

		for _, title := range titles {
			d.Sheets = append(d.Sheets, SheetRef{
				SpreadsheetID: s.ID,
				SheetName:     title,
				Source:        s.Name,
			})
		}
	}

	if len(d.Sheets) == 0 {
		return nil, fmt.Errorf("No sheets found.")
	}

	return &d, nil
}

// Options returns the selectable entries, led by the synthetic 'search all' entry when
// the directory is not empty.
func (d *Directory) Options() []Option {
	options := []Option{}
	if d == nil || len(d.Sheets) == 0 {
		return options
	}

	options = append(options, Option{Value: ALL, Label: "Search All Sheets"})

	for _, s := range d.Sheets {
		options = append(options, Option{
			Value: s.String(),
			Label: s.SheetName,
			Group: s.Source,
		})
	}

	return options
}

// Find resolves a selection of the form '<source>/<sheet>' or '<sheet>'. Names are
// compared case-insensitively and the first match wins.
func (d *Directory) Find(selection string) (SheetRef, bool) {
	selection = strings.TrimSpace(selection)

	for _, s := range d.Sheets {
		if strings.EqualFold(s.String(), selection) {
			return s, true
		}
	}

	return d.Resolve(selection)
}

// Resolve finds the first sheet named label, ignoring case. Used to map a SentLog
// 'Source Sheet' value back onto a loaded sheet.
func (d *Directory) Resolve(label string) (SheetRef, bool) {
	label = strings.TrimSpace(label)

	for _, s := range d.Sheets {
		if strings.EqualFold(s.SheetName, label) {
			return s, true
		}
	}

	return SheetRef{}, false
}
