package backfill

import (
	"context"
	"fmt"

	xhttp "TaPulse/pkg/http"
	applogger "TaPulse/pkg/logger"
)

// Client calls the external backfill service that owns candle ingestion.
type Client struct {
	baseURL string
	http    *xhttp.Client
	l       *applogger.Logger
}

func NewClient(baseURL string, httpClient *xhttp.Client) *Client {
	return &Client{baseURL: baseURL, http: httpClient}
}

// SetLogger injects a structured logger.
func (c *Client) SetLogger(l *applogger.Logger) { c.l = l }

type runResponse struct {
	Accepted bool   `json:"accepted"`
	JobID    string `json:"job_id"`
}

// Run asks the backfill service to rebuild candles for the payload's range.
func (c *Client) Run(ctx context.Context, p *JobPayload) error {
	var resp runResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + "/v1/backfill",
		Body:   p,
	}, &resp)
	if err != nil {
		return fmt.Errorf("backfill request: %w", err)
	}
	if !resp.Accepted {
		return fmt.Errorf("backfill rejected for %s:%s %s", p.Exchange, p.Symbol, p.Period)
	}
	if c.l != nil {
		c.l.Info("backfill accepted",
			applogger.String("exchange", p.Exchange),
			applogger.String("symbol", p.Symbol),
			applogger.String("period", p.Period),
			applogger.String("job_id", resp.JobID))
	}
	return nil
}
