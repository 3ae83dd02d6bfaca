package locator

import (
	"fmt"
	"regexp"
	"strings"
)

var plain = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Column converts a zero-based column index to its A1 letters: 0 is A, 25 is Z, 26 is AA
// and 701 is ZZ.
func Column(index int) string {
	letters := ""
	for index >= 0 {
		letters = string(rune('A'+index%26)) + letters
		index = index/26 - 1
	}

	return letters
}

// Address returns the absolute A1 reference of a single cell. row is 1-based.
func Address(sheet string, column int, row int) string {
	return fmt.Sprintf("%s!%s%d", Quote(sheet), Column(column), row)
}

// Range returns the A1 reference from:to on a sheet, e.g. Leads!A:Z or SentLog!A2:Z1501.
func Range(sheet string, from, to string) string {
	return fmt.Sprintf("%s!%s:%s", Quote(sheet), from, to)
}

// Quote quotes a sheet name for use in an A1 reference when it contains anything other
// than letters, digits and underscores.
func Quote(sheet string) string {
	if plain.MatchString(sheet) {
		return sheet
	}

	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}
