package sheets

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// apiResponse envoltura estándar del servicio de hojas remoto.
type apiResponse struct {
	Status int        `json:"status"`
	Msg    string     `json:"msg"`
	Values [][]string `json:"values"`
	Tables []string   `json:"tables"`
}

// RemoteClient cliente HTTP del servicio de hojas de cálculo.
type RemoteClient struct {
	httpClient    *resty.Client
	spreadsheetID string
	logger        *zap.Logger
}

// NewRemoteClient creates a client bound to one spreadsheet.
func NewRemoteClient(baseURL, spreadsheetID, apiToken string, logger *zap.Logger) *RemoteClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetAuthToken(apiToken).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &RemoteClient{
		httpClient:    client,
		spreadsheetID: spreadsheetID,
		logger:        logger,
	}
}

func (c *RemoteClient) call(ctx context.Context, path string, body any, out *apiResponse) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(out).
		Post(path)
	if err != nil {
		c.logger.Error("Sheets API call failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("failed to call sheets API: %w", err)
	}
	if resp.IsError() {
		c.logger.Error("Sheets API returned HTTP error",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode()),
		)
		return fmt.Errorf("sheets API HTTP %d", resp.StatusCode())
	}
	if out.Status != 0 {
		c.logger.Error("Sheets API returned error",
			zap.String("path", path),
			zap.Int("status", out.Status),
			zap.String("msg", out.Msg),
		)
		return fmt.Errorf("sheets API error: %s (status: %d)", out.Msg, out.Status)
	}
	return nil
}

// EnsureTable creates the worksheet with its header row when missing.
func (c *RemoteClient) EnsureTable(ctx context.Context, table string, header []string) error {
	var listResp apiResponse
	if err := c.call(ctx, "/v1/spreadsheets/"+c.spreadsheetID+"/tables", map[string]any{}, &listResp); err != nil {
		return err
	}
	for _, t := range listResp.Tables {
		if t == table {
			return nil
		}
	}

	c.logger.Info("Creating missing worksheet",
		zap.String("spreadsheet_id", c.spreadsheetID),
		zap.String("table", table),
	)
	var createResp apiResponse
	return c.call(ctx, "/v1/spreadsheets/"+c.spreadsheetID+"/tables/create", map[string]any{
		"table":  table,
		"header": header,
	}, &createResp)
}

// ReadAllRows fetches every data row of the table.
func (c *RemoteClient) ReadAllRows(ctx context.Context, table string) ([][]string, error) {
	var resp apiResponse
	if err := c.call(ctx, "/v1/spreadsheets/"+c.spreadsheetID+"/tables/"+table+"/rows", map[string]any{}, &resp); err != nil {
		return nil, err
	}
	if resp.Values == nil {
		return [][]string{}, nil
	}
	return resp.Values, nil
}

// AppendRow appends one row to the table.
func (c *RemoteClient) AppendRow(ctx context.Context, table string, row []string) error {
	var resp apiResponse
	return c.call(ctx, "/v1/spreadsheets/"+c.spreadsheetID+"/tables/"+table+"/append", map[string]any{
		"values": row,
	}, &resp)
}

// UpdateRowRange overwrites the full row at rowIndex (1-based, header included).
func (c *RemoteClient) UpdateRowRange(ctx context.Context, table string, rowIndex int, row []string) error {
	var resp apiResponse
	return c.call(ctx, "/v1/spreadsheets/"+c.spreadsheetID+"/tables/"+table+"/update", map[string]any{
		"row":    rowIndex,
		"values": row,
	}, &resp)
}
