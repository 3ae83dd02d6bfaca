package lookup

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/twystd/outreach"
	"github.com/twystd/outreach/directory"
	"github.com/twystd/outreach/locator"
)

// API is the subset of the Sheets client used to search and update contacts.
type API interface {
	Values(ctx context.Context, spreadsheetID, area string) ([][]string, error)
	Update(ctx context.Context, spreadsheetID, area, value string) error
}

// FastPath resolves the sheet of a contact without scanning every sheet.
type FastPath interface {
	Resolve(ctx context.Context, values locator.Values, d *directory.Directory, email string) (*locator.MatchResult, error)
}

// Session carries the state shared by a search and a following status update: the loaded
// directory and the most recently located contact. Match is nil until a search succeeds.
type Session struct {
	Directory *directory.Directory
	Match     *locator.MatchResult
	Statuses  []string

	API      API
	FastPath FastPath // nil if the SentLog fast path is disabled
	Log      *zap.Logger
}

// NewSession creates a session over a loaded directory.
func NewSession(api API, d *directory.Directory, statuses []string, fastpath FastPath, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}

	return &Session{
		Directory: d,
		Statuses:  statuses,
		API:       api,
		FastPath:  fastpath,
		Log:       log,
	}
}

// Search finds email in the selected sheet. The selection directory.ALL searches every
// sheet, via the fast path if one is configured and sweep is false. The session match is
// cleared when the search starts and set only if it succeeds.
func (s *Session) Search(ctx context.Context, selection string, email string, sweep bool) (*locator.MatchResult, error) {
	s.Match = nil

	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("Please enter an email.")
	}

	selection = strings.TrimSpace(selection)
	if selection == "" {
		return nil, fmt.Errorf("Please select a sheet.")
	}

	var match *locator.MatchResult
	var err error

	switch {
	case !strings.EqualFold(selection, directory.ALL):
		ref, ok := s.Directory.Find(selection)
		if !ok {
			return nil, fmt.Errorf("Unknown sheet '%v'", selection)
		}

		s.Log.Info("searching", zap.Stringer("sheet", ref))
		match, err = locator.Locate(ctx, s.API, ref, email)

	case s.FastPath != nil && !sweep:
		s.Log.Info("checking sentlog")
		match, err = s.FastPath.Resolve(ctx, s.API, s.Directory, email)

	default:
		match, err = s.sweep(ctx, email)
	}

	if err != nil {
		return nil, err
	}

	s.Match = match

	return match, nil
}

// sweep searches each sheet in turn until the first match. A sheet that cannot be read
// or scanned is skipped.
func (s *Session) sweep(ctx context.Context, email string) (*locator.MatchResult, error) {
	s.Log.Info("searching all sheets", zap.Int("sheets", len(s.Directory.Sheets)))

	for _, ref := range s.Directory.Sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s.Log.Debug("searching", zap.Stringer("sheet", ref))

		match, err := locator.Locate(ctx, s.API, ref, email)
		if err == nil {
			return match, nil
		}

		s.Log.Debug("skipping sheet", zap.Stringer("sheet", ref), zap.Error(err))
	}

	return nil, &outreach.NotFoundError{
		Email: email,
		Scope: "any sheet",
	}
}

// Update writes status to the 'Responded?' cell of the session match. Without a match it
// does nothing. status must be one of the session statuses (ignoring case) and is
// written in its configured spelling.
func (s *Session) Update(ctx context.Context, status string) error {
	if s.Match == nil {
		s.Log.Warn("no contact selected - search for a contact before updating its status")
		return nil
	}

	if strings.TrimSpace(status) == "" {
		return fmt.Errorf("Please select a status.")
	}

	value := Selected(s.Statuses, status)
	if value == "" {
		return fmt.Errorf("Invalid status '%v' - expected one of %v", status, strings.Join(s.Statuses, ", "))
	}

	s.Log.Info("updating", zap.String("address", s.Match.Address), zap.String("status", value))

	if err := s.API.Update(ctx, s.Match.SpreadsheetID, s.Match.Address, value); err != nil {
		return err
	}

	s.Match.Status = value

	return nil
}

// Selected maps a cell value onto one of the allowed statuses: an exact match first, then
// a case-insensitive one. Anything else maps to "".
func Selected(statuses []string, current string) string {
	current = strings.TrimSpace(current)
	if current == "" {
		return ""
	}

	for _, v := range statuses {
		if v == current {
			return v
		}
	}

	for _, v := range statuses {
		if strings.EqualFold(v, current) {
			return v
		}
	}

	return ""
}
