package game

import (
	"context"
	"math/rand"

	"github.com/terracaughta/geoguess/internal/countries"
)

// DefaultMaxAttempts bounds the selection retry loop. A hundred draws is
// far more than enough against a healthy upstream; hitting the ceiling
// means the geo service is persistently failing.
const DefaultMaxAttempts = 100

// GeoFetcher resolves a country's coordinates and income classification.
type GeoFetcher interface {
	FetchGeoClue(ctx context.Context, iso2 string) (countries.GeoClue, error)
}

// Selector draws a random, previously-unused, coordinate-resolvable
// country from the pool.
type Selector struct {
	geo         GeoFetcher
	maxAttempts int
	intn        func(n int) int
}

func NewSelector(geo GeoFetcher, maxAttempts int) *Selector {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Selector{
		geo:         geo,
		maxAttempts: maxAttempts,
		intn:        rand.Intn,
	}
}

// Select draws uniformly from pool until a candidate passes both checks:
// not in the used set, and resolvable coordinates. A failed or timed-out
// geo fetch counts as a rejected candidate, not an error. When the used
// set covers the whole pool the deck is reshuffled: the set is cleared in
// place and drawing continues. Exhausting the retry budget returns
// ErrNoEligibleCountry.
func (s *Selector) Select(ctx context.Context, pool []countries.Country, used *UsedSet) (countries.Country, countries.GeoClue, error) {
	if len(pool) == 0 {
		return countries.Country{}, countries.GeoClue{}, ErrNoEligibleCountry
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if used.Len() >= len(pool) {
			used.Clear()
		}

		c := pool[s.intn(len(pool))]
		if used.Has(c.Name) {
			continue
		}

		geo, err := s.geo.FetchGeoClue(ctx, c.ISO2)
		if err != nil || !geo.HasCoordinates() {
			continue
		}
		return c, geo, nil
	}
	return countries.Country{}, countries.GeoClue{}, ErrNoEligibleCountry
}
