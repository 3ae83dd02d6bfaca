package sentlog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/twystd/outreach"
	"github.com/twystd/outreach/config"
	"github.com/twystd/outreach/directory"
	"github.com/twystd/outreach/google"
	"github.com/twystd/outreach/locator"
)

// API is the subset of the Sheets client used by the resolver.
type API interface {
	Sheets(ctx context.Context, spreadsheetID string) ([]google.Sheet, error)
	Values(ctx context.Context, spreadsheetID, area string) ([][]string, error)
}

// Resolver finds the source sheet of a contact from the most recent entries of the
// 'SentLog' worksheet.
type Resolver struct {
	Spreadsheet string
	Sheet       string
	Window      int

	API API
	Log *zap.Logger
}

// NewResolver returns a resolver for the configured SentLog.
func NewResolver(api API, cfg config.SentLogConfig, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}

	return &Resolver{
		Spreadsheet: cfg.Spreadsheet,
		Sheet:       cfg.Sheet,
		Window:      cfg.Window,
		API:         api,
		Log:         log,
	}
}

// Label scans the last Window rows of the SentLog backwards and returns the trimmed
// 'Source Sheet' value of the most recent row for email. Entries older than the window
// are not searched.
func (r *Resolver) Label(ctx context.Context, email string) (string, error) {
	notFound := &outreach.NotFoundError{
		Email: email,
		Scope: fmt.Sprintf("the last %v entries of %v", r.Window, r.Sheet),
	}

	// ... get row count
	list, err := r.API.Sheets(ctx, r.Spreadsheet)
	if err != nil {
		return "", fmt.Errorf("Failed to fetch %v metadata (%w)", r.Sheet, err)
	}

	var rows int64 = -1
	for _, s := range list {
		if s.Title == r.Sheet {
			rows = s.RowCount
			break
		}
	}

	if rows < 0 {
		return "", &outreach.DataShapeError{Reason: fmt.Sprintf("Sheet %q not found in log spreadsheet.", r.Sheet)}
	}

	// ... resolve columns
	header, err := r.API.Values(ctx, r.Spreadsheet, locator.Range(r.Sheet, "1", "1"))
	if err != nil {
		return "", fmt.Errorf("Failed to fetch %v headers (%w)", r.Sheet, err)
	}

	if len(header) == 0 || len(header[0]) == 0 {
		return "", &outreach.DataShapeError{Sheet: r.Sheet, Reason: "headers empty."}
	}

	emailIndex := indexOf(header[0], "email")
	sourceIndex := indexOf(header[0], "source sheet")

	if emailIndex == -1 {
		return "", &outreach.DataShapeError{Sheet: r.Sheet, Reason: `No "Email" column.`}
	}

	if sourceIndex == -1 {
		return "", &outreach.DataShapeError{Sheet: r.Sheet, Reason: `No "Source Sheet" column.`}
	}

	// ... fetch window
	start, end, ok := window(rows, r.Window)
	if !ok {
		return "", notFound
	}

	r.Log.Debug("scanning sentlog", zap.String("sheet", r.Sheet), zap.Int64("from", start), zap.Int64("to", end))

	area := locator.Range(r.Sheet, fmt.Sprintf("A%d", start), fmt.Sprintf("Z%d", end))
	data, err := r.API.Values(ctx, r.Spreadsheet, area)
	if err != nil {
		return "", fmt.Errorf("Failed to fetch %v data (%w)", r.Sheet, err)
	}

	// ... most recent first
	target := normalise(email)
	for i := len(data) - 1; i >= 0; i-- {
		row := data[i]
		if normalise(field(row, emailIndex)) == target {
			if label := strings.TrimSpace(field(row, sourceIndex)); label != "" {
				return label, nil
			}

			break
		}
	}

	return "", notFound
}

// Resolve maps the SentLog label for email onto a loaded sheet and locates the contact's
// row there. A label that names no loaded sheet is a ResolutionError.
func (r *Resolver) Resolve(ctx context.Context, values locator.Values, d *directory.Directory, email string) (*locator.MatchResult, error) {
	label, err := r.Label(ctx, email)
	if err != nil {
		return nil, err
	}

	r.Log.Info("found in sentlog", zap.String("source", label))

	ref, ok := d.Resolve(label)
	if !ok {
		return nil, &outreach.ResolutionError{Label: label}
	}

	return locator.Locate(ctx, values, ref, email)
}

// window returns the 1-based row range covering the last n data rows of a sheet with the
// given grid row count. The range never includes the header row.
func window(rows int64, n int) (int64, int64, bool) {
	if rows < 2 || n <= 0 {
		return 0, 0, false
	}

	start := rows - int64(n) + 1
	if start < 2 {
		start = 2
	}

	return start, rows, true
}

func indexOf(row []string, name string) int {
	for i, v := range row {
		if normalise(v) == name {
			return i
		}
	}

	return -1
}

func normalise(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func field(row []string, ix int) string {
	if ix >= 0 && ix < len(row) {
		return row[ix]
	}

	return ""
}
