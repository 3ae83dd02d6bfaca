package locator

import (
	"strings"

	"github.com/twystd/outreach"
)

// HeaderMap holds the resolved column indices of a worksheet. Name is -1 when the sheet
// has no name column.
type HeaderMap struct {
	Email     int
	Responded int
	Name      int
}

// Headers resolves the email, 'Responded?' and name columns from a header row. Header
// text is trimmed and compared case-insensitively, the first matching column wins. The
// name column is the first of 'first name' or 'name'.
func Headers(row []string) (HeaderMap, error) {
	h := HeaderMap{
		Email:     indexOf(row, "email"),
		Responded: indexOf(row, "responded?"),
		Name:      indexOf(row, "first name", "name"),
	}

	if h.Email == -1 {
		return h, &outreach.DataShapeError{Reason: `Column "Email" not found in this sheet.`}
	}

	if h.Responded == -1 {
		return h, &outreach.DataShapeError{Reason: `Column "Responded?" not found in this sheet.`}
	}

	return h, nil
}

func indexOf(row []string, names ...string) int {
	for i, v := range row {
		k := normalise(v)
		for _, name := range names {
			if k == name {
				return i
			}
		}
	}

	return -1
}

func normalise(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func clean(v string) string {
	return strings.TrimSpace(v)
}

func field(row []string, ix int) string {
	if ix >= 0 && ix < len(row) {
		return row[ix]
	}

	return ""
}
