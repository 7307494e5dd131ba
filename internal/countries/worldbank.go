package countries

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// WorldBank fetches per-country coordinates and income classification from
// the World Bank v2 country endpoint.
type WorldBank struct {
	baseURL string
	http    *http.Client
}

func NewWorldBank(baseURL string, timeout time.Duration) *WorldBank {
	return &WorldBank{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type wbIncomeLevel struct {
	Value string `json:"value"`
}

type wbCountry struct {
	Latitude    string        `json:"latitude"`
	Longitude   string        `json:"longitude"`
	IncomeLevel wbIncomeLevel `json:"incomeLevel"`
}

// FetchGeoClue returns the geo/economic data for one country. Coordinates
// the endpoint leaves blank come back as nil pointers; the caller decides
// whether that makes the country ineligible.
func (w *WorldBank) FetchGeoClue(ctx context.Context, iso2 string) (GeoClue, error) {
	url := fmt.Sprintf("%s/%s?format=json&per_page=1", w.baseURL, iso2)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return GeoClue{}, fmt.Errorf("building request: %w", err)
	}

	resp, err := w.http.Do(req)
	if err != nil {
		return GeoClue{}, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GeoClue{}, fmt.Errorf("%w: unexpected status %d", ErrDataUnavailable, resp.StatusCode)
	}

	// The endpoint wraps the record in [metadata, [record]].
	var envelope []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return GeoClue{}, fmt.Errorf("%w: decoding response: %v", ErrDataUnavailable, err)
	}
	if len(envelope) < 2 {
		return GeoClue{}, fmt.Errorf("%w: truncated response envelope", ErrDataUnavailable)
	}

	var records []wbCountry
	if err := json.Unmarshal(envelope[1], &records); err != nil {
		return GeoClue{}, fmt.Errorf("%w: decoding record: %v", ErrDataUnavailable, err)
	}
	if len(records) == 0 {
		return GeoClue{}, fmt.Errorf("%w: no record for %s", ErrDataUnavailable, iso2)
	}

	rec := records[0]
	return GeoClue{
		Lat:         parseCoord(rec.Latitude),
		Lng:         parseCoord(rec.Longitude),
		IncomeLevel: rec.IncomeLevel.Value,
	}, nil
}

// parseCoord turns the endpoint's string coordinates into a float pointer.
// Blank or malformed values mean the coordinate is absent.
func parseCoord(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
