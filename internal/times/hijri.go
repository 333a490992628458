package times

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

// Resolver maps the fixed important-day templates to Gregorian dates within
// one target year. A template that cannot be matched for that year is simply
// absent from the result.
type Resolver interface {
	Resolve(ctx context.Context, year int) ([]model.ResolvedImportantDay, error)
}

type aladhanResolver struct {
	base     string
	client   *http.Client
	location *time.Location
}

var _ Resolver = (*aladhanResolver)(nil)

// NewAladhanResolver builds a Resolver against the given base URL (empty for
// the public API). Resolved dates are local midnights in loc.
func NewAladhanResolver(baseURL string, loc *time.Location) Resolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if loc == nil {
		loc = time.Local
	}
	return &aladhanResolver{base: baseURL, client: &http.Client{Timeout: 10 * time.Second}, location: loc}
}

func (r *aladhanResolver) Resolve(ctx context.Context, year int) ([]model.ResolvedImportantDay, error) {
	hijriYear, err := r.hijriYearAt(ctx, year)
	if err != nil {
		return nil, err
	}

	var out []model.ResolvedImportantDay
	for _, tpl := range model.ImportantDayTemplates() {
		var resolved time.Time
		found := false
		// the lunar year is shorter, so a hijri date can fall in either of
		// two hijri years within one Gregorian year
		for _, hy := range []int{hijriYear, hijriYear + 1} {
			date, err := r.hijriToGregorian(ctx, tpl.HijriDay, tpl.HijriMonth, hy)
			if err != nil {
				log.Warn().Err(err).Str("day", tpl.Name).Int("hijri_year", hy).Msg("hijri conversion failed")
				continue
			}
			if date.Year() == year {
				resolved = date
				found = true
				break
			}
		}
		if !found {
			// absence is not an error, the day just has no match this year
			continue
		}
		out = append(out, model.ResolvedImportantDay{ImportantDayTemplate: tpl, Date: resolved})
	}
	return out, nil
}

// hijriYearAt returns the hijri year in effect on January 1 of year.
func (r *aladhanResolver) hijriYearAt(ctx context.Context, year int) (int, error) {
	url := fmt.Sprintf("%s/v1/gToH/01-01-%d", r.base, year)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to convert gregorian date: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("failed to convert gregorian date: status %d", resp.StatusCode)
	}

	var payload struct {
		Data struct {
			Hijri struct {
				Year string `json:"year"`
			} `json:"hijri"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("undecodable gToH response: %w", err)
	}
	hijriYear, err := strconv.Atoi(payload.Data.Hijri.Year)
	if err != nil {
		return 0, fmt.Errorf("unparseable hijri year %q: %w", payload.Data.Hijri.Year, err)
	}
	return hijriYear, nil
}

func (r *aladhanResolver) hijriToGregorian(ctx context.Context, day, month, hijriYear int) (time.Time, error) {
	url := fmt.Sprintf("%s/v1/hToG/%02d-%02d-%d", r.base, day, month, hijriYear)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return time.Time{}, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to convert hijri date: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return time.Time{}, fmt.Errorf("failed to convert hijri date: status %d", resp.StatusCode)
	}

	var payload struct {
		Data struct {
			Gregorian struct {
				Date string `json:"date"` // dd-mm-yyyy
			} `json:"gregorian"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return time.Time{}, fmt.Errorf("undecodable hToG response: %w", err)
	}
	return time.ParseInLocation("02-01-2006", payload.Data.Gregorian.Date, r.location)
}
