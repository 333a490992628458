// Package times wraps the aladhan.com API behind the two collaborator
// interfaces the engine consumes: today's prayer times as HH:MM strings and
// Hijri important days resolved to Gregorian dates.
package times

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public aladhan API.
const DefaultBaseURL = "https://api.aladhan.com"

// Provider returns today's prayer times for a location, keyed by
// Fajr/Dhuhr/Asr/Maghrib/Isha, as "HH:MM" local time strings.
type Provider interface {
	Timings(ctx context.Context, latitude, longitude float64) (map[string]string, error)
}

type aladhanProvider struct {
	base   string
	client *http.Client
}

var _ Provider = (*aladhanProvider)(nil)

// NewAladhanProvider builds a Provider against the given base URL (empty for
// the public API).
func NewAladhanProvider(baseURL string) Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &aladhanProvider{base: baseURL, client: &http.Client{Timeout: 10 * time.Second}}
}

var prayerKeys = []string{"Fajr", "Dhuhr", "Asr", "Maghrib", "Isha"}

func (p *aladhanProvider) Timings(ctx context.Context, latitude, longitude float64) (map[string]string, error) {
	url := fmt.Sprintf("%s/v1/timings?latitude=%f&longitude=%f&method=2", p.base, latitude, longitude)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get prayer times: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get prayer times: status %d", resp.StatusCode)
	}

	var aladhan struct {
		Data struct {
			Timings map[string]string `json:"timings"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&aladhan); err != nil {
		return nil, fmt.Errorf("undecodable timings response: %w", err)
	}

	out := make(map[string]string, len(prayerKeys))
	for _, key := range prayerKeys {
		raw, ok := aladhan.Data.Timings[key]
		if !ok {
			continue
		}
		// the API appends the timezone in parens, e.g. "05:12 (EET)"
		out[key] = strings.TrimSpace(strings.SplitN(raw, " ", 2)[0])
	}
	return out, nil
}
