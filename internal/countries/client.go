package countries

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

// minPopulation filters out microstates: only countries with at least one
// million inhabitants enter the guessing pool.
const minPopulation = 1_000_000

const poolFields = "name,capital,flags,population,currencies,borders,cca2"

// Client fetches country data from a REST Countries v3.1 compatible API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type restName struct {
	Common string `json:"common"`
}

type restFlags struct {
	PNG string `json:"png"`
	SVG string `json:"svg"`
}

type restCountry struct {
	Name       restName                   `json:"name"`
	Capital    []string                   `json:"capital"`
	Flags      restFlags                  `json:"flags"`
	Population int64                      `json:"population"`
	Currencies map[string]json.RawMessage `json:"currencies"`
	Borders    []string                   `json:"borders"`
	CCA2       string                     `json:"cca2"`
}

// FetchPool downloads the full country directory and filters it to the
// eligible pool. Countries without land borders get the island sentinel in
// place of an empty border list.
func (c *Client) FetchPool(ctx context.Context) ([]Country, error) {
	url := fmt.Sprintf("%s/all?fields=%s", c.baseURL, poolFields)

	var raw []restCountry
	if err := c.getJSON(ctx, url, &raw); err != nil {
		return nil, fmt.Errorf("fetching country pool: %w", err)
	}

	pool := make([]Country, 0, len(raw))
	for _, rc := range raw {
		if rc.Population < minPopulation {
			continue
		}
		pool = append(pool, rc.toCountry())
	}
	return pool, nil
}

type restNeighbor struct {
	Name       restName `json:"name"`
	Population int64    `json:"population"`
}

// FetchNeighbors resolves 3-letter border codes to names and populations,
// in the order the directory returns them.
func (c *Client) FetchNeighbors(ctx context.Context, codes []string) ([]Neighbor, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	url := fmt.Sprintf("%s/alpha?codes=%s&fields=name,population",
		c.baseURL, strings.Join(codes, ","))

	var raw []restNeighbor
	if err := c.getJSON(ctx, url, &raw); err != nil {
		return nil, fmt.Errorf("fetching neighbor names: %w", err)
	}

	neighbors := make([]Neighbor, 0, len(raw))
	for _, rn := range raw {
		neighbors = append(neighbors, Neighbor{Name: rn.Name.Common, Population: rn.Population})
	}
	return neighbors, nil
}

// Ping issues a cheap single-country request to verify the directory is
// reachable. Used by the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	url := fmt.Sprintf("%s/alpha?codes=US&fields=cca2", c.baseURL)
	var raw []restCountry
	return c.getJSON(ctx, url, &raw)
}

func (rc restCountry) toCountry() Country {
	capital := ""
	if len(rc.Capital) > 0 {
		capital = rc.Capital[0]
	}

	// The directory keys currencies by code; take the first in sorted order
	// so repeated fetches produce the same clue.
	currency := ""
	if len(rc.Currencies) > 0 {
		codes := make([]string, 0, len(rc.Currencies))
		for code := range rc.Currencies {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		currency = codes[0]
	}

	borders := rc.Borders
	if len(borders) == 0 {
		borders = []string{IslandSentinel}
	}

	flag := rc.Flags.PNG
	if flag == "" {
		flag = rc.Flags.SVG
	}

	return Country{
		Name:          rc.Name.Common,
		ISO2:          rc.CCA2,
		Population:    rc.Population,
		Capital:       capital,
		CurrencyCode:  currency,
		NeighborCodes: borders,
		FlagURL:       flag,
	}
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrDataUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrDataUnavailable, err)
	}
	return nil
}
