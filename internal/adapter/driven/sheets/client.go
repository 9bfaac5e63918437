// Package sheets implements the Mirror port against the Google Sheets API.
package sheets

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/punchcardhq/punchcard/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Mirror = (*Client)(nil)

// Client pushes entry-log projections to one range of one spreadsheet.
// Every call runs under its own timeout; a slow or unreachable API degrades
// only the sync step, never the local append that preceded it.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	readRange     string
	timeout       time.Duration
}

// NewClient builds a Sheets mirror authenticated with a service-account key
// file, matching how the spreadsheet credentials are provisioned in config.
func NewClient(ctx context.Context, credentialsFile, spreadsheetID, readRange string, timeout time.Duration) (*Client, error) {
	return NewClientWithOptions(ctx, spreadsheetID, readRange, timeout,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
}

// NewClientWithOptions builds a Client from raw client options. Intended for
// tests, allowing injection of an httptest server endpoint without credentials.
func NewClientWithOptions(ctx context.Context, spreadsheetID, readRange string, timeout time.Duration, opts ...option.ClientOption) (*Client, error) {
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
		timeout:       timeout,
	}, nil
}

// Read returns the current values in the mirror range. An empty result means
// the range holds no rows yet, which signals the header is still missing.
func (c *Client) Read(ctx context.Context) ([][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read mirror range %q: %w", c.readRange, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Append adds the rows after the last populated row in one batch call.
func (c *Client) Append(ctx context.Context, rows [][]string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	values := make([][]any, 0, len(rows))
	for _, row := range rows {
		cells := make([]any, 0, len(row))
		for _, cell := range row {
			cells = append(cells, cell)
		}
		values = append(values, cells)
	}

	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.readRange, &sheetsapi.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append %d rows to mirror range %q: %w", len(rows), c.readRange, err)
	}
	return nil
}

// Clear removes every value from the mirror range. Used only by full resync,
// which immediately replays the local log afterwards.
func (c *Client) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.svc.Spreadsheets.Values.
		Clear(c.spreadsheetID, c.readRange, &sheetsapi.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("clear mirror range %q: %w", c.readRange, err)
	}
	return nil
}
