package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/twystd/outreach"
)

// Client wraps the Google Sheets v4 service with the handful of calls used to find and
// update contacts.
type Client struct {
	service *sheets.Service
	log     *zap.Logger
}

// Sheet is the subset of the sheet properties used by the directory and the SentLog
// resolver.
type Sheet struct {
	Title    string
	RowCount int64
}

// NewClient creates a Sheets client over an authorised HTTP client. Additional options
// (e.g. option.WithEndpoint) are passed through to the Sheets service.
func NewClient(ctx context.Context, client *http.Client, log *zap.Logger, opts ...option.ClientOption) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}

	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	return &Client{
		service: service,
		log:     log,
	}, nil
}

// Titles returns the worksheet titles of a spreadsheet, in sheet order.
func (c *Client) Titles(ctx context.Context, spreadsheetID string) ([]string, error) {
	c.log.Debug("fetching sheet titles", zap.String("spreadsheet", spreadsheetID))

	spreadsheet, err := c.service.Spreadsheets.
		Get(spreadsheetID).
		Fields(googleapi.Field("sheets.properties.title")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, convert(err)
	}

	titles := []string{}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil {
			titles = append(titles, sheet.Properties.Title)
		}
	}

	return titles, nil
}

// Sheets returns the title and grid row count of every worksheet in a spreadsheet.
func (c *Client) Sheets(ctx context.Context, spreadsheetID string) ([]Sheet, error) {
	c.log.Debug("fetching sheet properties", zap.String("spreadsheet", spreadsheetID))

	spreadsheet, err := c.service.Spreadsheets.
		Get(spreadsheetID).
		Fields(googleapi.Field("sheets.properties")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, convert(err)
	}

	list := []Sheet{}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties == nil {
			continue
		}

		s := Sheet{Title: sheet.Properties.Title}
		if sheet.Properties.GridProperties != nil {
			s.RowCount = sheet.Properties.GridProperties.RowCount
		}

		list = append(list, s)
	}

	return list, nil
}

// Values retrieves a range as rows of cell strings. Trailing empty cells are omitted by
// the API so rows may be ragged.
func (c *Client) Values(ctx context.Context, spreadsheetID, area string) ([][]string, error) {
	c.log.Debug("fetching values", zap.String("spreadsheet", spreadsheetID), zap.String("range", area))

	response, err := c.service.Spreadsheets.Values.Get(spreadsheetID, area).Context(ctx).Do()
	if err != nil {
		return nil, convert(err)
	}

	rows := make([][]string, 0, len(response.Values))
	for _, row := range response.Values {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = cell(v)
		}

		rows = append(rows, record)
	}

	return rows, nil
}

// Update writes a single value to a single cell range as if typed by a user.
func (c *Client) Update(ctx context.Context, spreadsheetID, area, value string) error {
	c.log.Debug("updating cell", zap.String("spreadsheet", spreadsheetID), zap.String("range", area), zap.String("value", value))

	rq := sheets.ValueRange{
		Range:          area,
		MajorDimension: "ROWS",
		Values:         [][]any{{value}},
	}

	if _, err := c.service.Spreadsheets.Values.Update(spreadsheetID, area, &rq).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do(); err != nil {
		return convert(err)
	}

	return nil
}

func cell(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}

// convert turns a googleapi error into an HTTPError carrying the response text.
func convert(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		body := strings.TrimSpace(gerr.Body)
		if body == "" {
			body = gerr.Message
		}

		return &outreach.HTTPError{
			Status: gerr.Code,
			Body:   body,
		}
	}

	return err
}
