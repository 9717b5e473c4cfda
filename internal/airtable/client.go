// Package airtable implements the tabular datastore client used for member,
// event, and submission records.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.airtable.com/v0"

// Record is one row of a table. Fields are decoded as loose JSON values;
// use the typed accessors in fields.go to read them.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

// Sort describes a single-field sort order for FindAll.
type Sort struct {
	Field string
	Desc  bool
}

// Client is the datastore collaborator interface. FindOne reports a missing
// record as (nil, nil); every other unexpected condition is an error.
type Client interface {
	FindOne(ctx context.Context, table, formula string) (*Record, error)
	FindAll(ctx context.Context, table, formula string, sort *Sort) ([]Record, error)
	Create(ctx context.Context, table string, fields map[string]any) (*Record, error)
	Update(ctx context.Context, table, recordID string, fields map[string]any) (*Record, error)
}

type httpClient struct {
	baseURL string
	apiKey  string
	baseID  string
	hc      *http.Client
	log     *slog.Logger
}

// NewClient creates an Airtable client for the given base. Missing
// credentials fail fast at construction.
func NewClient(apiKey, baseID string, timeout time.Duration, logger *slog.Logger) (Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("airtable api key is required")
	}
	if baseID == "" {
		return nil, fmt.Errorf("airtable base id is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &httpClient{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		baseID:  baseID,
		hc:      &http.Client{Timeout: timeout},
		log:     logger.With("component", "airtable_client"),
	}, nil
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

func (c *httpClient) tableURL(table string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(c.baseID), url.PathEscape(table))
}

func (c *httpClient) do(ctx context.Context, method, rawURL string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("airtable request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.log.Warn("Error closing response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("airtable returned %d for %s %s: %s", resp.StatusCode, method, rawURL, detail)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("unexpected airtable response shape: %w", err)
		}
	}
	return nil
}

func (c *httpClient) list(ctx context.Context, table, formula string, sort *Sort, maxRecords int) ([]Record, error) {
	var records []Record
	offset := ""

	for {
		q := url.Values{}
		if formula != "" {
			q.Set("filterByFormula", formula)
		}
		if sort != nil {
			q.Set("sort[0][field]", sort.Field)
			direction := "asc"
			if sort.Desc {
				direction = "desc"
			}
			q.Set("sort[0][direction]", direction)
		}
		if maxRecords > 0 {
			q.Set("maxRecords", fmt.Sprintf("%d", maxRecords))
		}
		if offset != "" {
			q.Set("offset", offset)
		}

		var page listResponse
		if err := c.do(ctx, http.MethodGet, c.tableURL(table)+"?"+q.Encode(), nil, &page); err != nil {
			return nil, err
		}
		records = append(records, page.Records...)

		if page.Offset == "" || (maxRecords > 0 && len(records) >= maxRecords) {
			return records, nil
		}
		offset = page.Offset
	}
}

func (c *httpClient) FindOne(ctx context.Context, table, formula string) (*Record, error) {
	records, err := c.list(ctx, table, formula, nil, 1)
	if err != nil {
		c.log.ErrorContext(ctx, "FindOne failed", "table", table, "error", err)
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (c *httpClient) FindAll(ctx context.Context, table, formula string, sort *Sort) ([]Record, error) {
	records, err := c.list(ctx, table, formula, sort, 0)
	if err != nil {
		c.log.ErrorContext(ctx, "FindAll failed", "table", table, "error", err)
		return nil, err
	}
	return records, nil
}

func (c *httpClient) Create(ctx context.Context, table string, fields map[string]any) (*Record, error) {
	var record Record
	payload := map[string]any{"fields": fields}
	if err := c.do(ctx, http.MethodPost, c.tableURL(table), payload, &record); err != nil {
		c.log.ErrorContext(ctx, "Create failed", "table", table, "error", err)
		return nil, err
	}

	c.log.DebugContext(ctx, "Record created", "table", table, "record_id", record.ID)
	return &record, nil
}

func (c *httpClient) Update(ctx context.Context, table, recordID string, fields map[string]any) (*Record, error) {
	if recordID == "" {
		return nil, fmt.Errorf("record id is required for update")
	}

	var record Record
	payload := map[string]any{"fields": fields}
	rawURL := c.tableURL(table) + "/" + url.PathEscape(recordID)
	if err := c.do(ctx, http.MethodPatch, rawURL, payload, &record); err != nil {
		c.log.ErrorContext(ctx, "Update failed", "table", table, "record_id", recordID, "error", err)
		return nil, err
	}

	c.log.DebugContext(ctx, "Record updated", "table", table, "record_id", record.ID)
	return &record, nil
}
