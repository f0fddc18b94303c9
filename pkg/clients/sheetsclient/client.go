package sheetsclient

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/carabineros/intranet/pkg/core/roster"
)

// Client wraps the Google Sheets API client
type Client struct {
	service *sheets.Service
	ctx     context.Context
}

// NewClient creates a read-only Sheets client authenticated with a service account key file
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service: service,
		ctx:     ctx,
	}, nil
}

// GetValues reads the formatted values of a spreadsheet range
func (c *Client) GetValues(spreadsheetID, sheetRange string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, sheetRange).
		Context(c.ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get values: %w", err)
	}

	return resp.Values, nil
}

// ReadGrid reads a roster tab as typed cells. Values are requested unformatted
// so that date headers arrive as serial numbers rather than locale text.
func (c *Client) ReadGrid(spreadsheetID, tab string) ([][]roster.Cell, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, tab).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(c.ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get roster values: %w", err)
	}

	return toGrid(resp.Values), nil
}

func toGrid(values [][]interface{}) [][]roster.Cell {
	grid := make([][]roster.Cell, len(values))
	for i, row := range values {
		cells := make([]roster.Cell, len(row))
		for j, v := range row {
			cells[j] = roster.CellFromValue(v)
		}
		grid[i] = cells
	}
	return grid
}
