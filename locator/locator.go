package locator

import (
	"context"
	"fmt"

	"github.com/twystd/outreach"
	"github.com/twystd/outreach/directory"
)

// Values is implemented by the Sheets client.
type Values interface {
	Values(ctx context.Context, spreadsheetID, area string) ([][]string, error)
}

// MatchResult is a located contact row and the absolute address of its 'Responded?'
// cell.
type MatchResult struct {
	SpreadsheetID string `json:"spreadsheet-id"`
	Sheet         string `json:"sheet"`
	Source        string `json:"source"`
	Row           int    `json:"row"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email"`
	Status        string `json:"status"`
	Address       string `json:"address"`
}

// Locate fetches columns A:Z of the worksheet and returns the first row whose email
// matches, ignoring case and surrounding whitespace.
func Locate(ctx context.Context, api Values, ref directory.SheetRef, email string) (*MatchResult, error) {
	rows, err := api.Values(ctx, ref.SpreadsheetID, Range(ref.SheetName, "A", "Z"))
	if err != nil {
		return nil, err
	}

	return Scan(rows, ref, email)
}

// Scan searches the rows of a worksheet for email. Row 0 is the header row.
func Scan(rows [][]string, ref directory.SheetRef, email string) (*MatchResult, error) {
	if len(rows) == 0 {
		return nil, &outreach.DataShapeError{Sheet: ref.String(), Reason: "Sheet is empty."}
	}

	header, err := Headers(rows[0])
	if err != nil {
		if e, ok := err.(*outreach.DataShapeError); ok {
			e.Sheet = ref.String()
		}

		return nil, err
	}

	target := normalise(email)

	for i, row := range rows[1:] {
		if normalise(field(row, header.Email)) != target {
			continue
		}

		number := i + 2

		return &MatchResult{
			SpreadsheetID: ref.SpreadsheetID,
			Sheet:         ref.SheetName,
			Source:        ref.Source,
			Row:           number,
			Name:          clean(field(row, header.Name)),
			Email:         clean(field(row, header.Email)),
			Status:        clean(field(row, header.Responded)),
			Address:       Address(ref.SheetName, header.Responded, number),
		}, nil
	}

	return nil, &outreach.NotFoundError{
		Email: email,
		Scope: fmt.Sprintf("sheet %v", ref),
	}
}
