package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jakhongir/openrouter-telegram-bot/pkg/domain"
)

type creditsResponse struct {
	Data struct {
		TotalCredits float64 `json:"total_credits"`
		TotalUsage   float64 `json:"total_usage"`
	} `json:"data"`
}

// GetCredits fetches the account balance. go-openai has no binding for this
// endpoint, so the request is built by hand.
func (c *client) GetCredits(ctx context.Context) (domain.Credits, error) {
	url := c.baseURL + "/credits"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Credits{}, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return domain.Credits{}, fmt.Errorf("%w: fetching credits: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return domain.Credits{}, fmt.Errorf("%w: unexpected status code %d: %s", domain.ErrUpstreamUnavailable, resp.StatusCode, body)
	}

	var credits creditsResponse
	if err := json.NewDecoder(resp.Body).Decode(&credits); err != nil {
		return domain.Credits{}, fmt.Errorf("decoding credits response: %w", err)
	}

	return domain.Credits{
		TotalCredits: credits.Data.TotalCredits,
		TotalUsage:   credits.Data.TotalUsage,
	}, nil
}
