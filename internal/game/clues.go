package game

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/terracaughta/geoguess/internal/countries"
)

const (
	unavailableText       = "Unavailable"
	islandText            = "It is an island country or surrounded by a single nation"
	bordersUnavailable    = "Border data unavailable"
	maxNeighborsInClue    = 3
	unknownCapitalDisplay = "Unknown"
)

// NeighborFetcher resolves border codes to names and populations.
type NeighborFetcher interface {
	FetchNeighbors(ctx context.Context, codes []string) ([]countries.Neighbor, error)
}

// ClueSet is the round's five formatted clues, index 0 the vaguest and
// most valuable, index 4 the giveaway. Immutable once built.
type ClueSet [NumClues]string

// ClueResolver formats the clue funnel for a selected country. Missing
// upstream data degrades individual clues to placeholder text; it never
// blocks a round.
type ClueResolver struct {
	neighbors NeighborFetcher
}

func NewClueResolver(neighbors NeighborFetcher) *ClueResolver {
	return &ClueResolver{neighbors: neighbors}
}

// BuildClues produces the fixed-order funnel: location + income class,
// population, currency, neighbors, capital.
func (r *ClueResolver) BuildClues(ctx context.Context, c countries.Country, geo countries.GeoClue) ClueSet {
	income := geo.IncomeLevel
	if income == "" {
		income = unavailableText
	}

	capital := c.Capital
	if capital == "" {
		capital = unknownCapitalDisplay
	}

	return ClueSet{
		fmt.Sprintf("Approximate location: %s. Economic classification: %s.",
			formatLocation(geo), income),
		fmt.Sprintf("Population: %s.", humanize.Comma(c.Population)),
		fmt.Sprintf("Currency code: %s.", c.CurrencyCode),
		fmt.Sprintf("Neighbors: %s.", r.neighborText(ctx, c)),
		fmt.Sprintf("Capital city: %s.", capital),
	}
}

// formatLocation renders coordinates as absolute degrees with hemisphere
// letters, e.g. "9.15° N, 40.49° E".
func formatLocation(geo countries.GeoClue) string {
	if !geo.HasCoordinates() {
		return unavailableText
	}

	lat, lng := *geo.Lat, *geo.Lng
	latDir, lngDir := "N", "E"
	if lat < 0 {
		latDir = "S"
		lat = -lat
	}
	if lng < 0 {
		lngDir = "W"
		lng = -lng
	}
	return fmt.Sprintf("%.2f° %s, %.2f° %s", lat, latDir, lng, lngDir)
}

// neighborText lists up to three neighbors by descending population,
// catalog order breaking ties. Islands get the sentinel text; a failed
// lookup degrades to a placeholder.
func (r *ClueResolver) neighborText(ctx context.Context, c countries.Country) string {
	if len(c.NeighborCodes) == 0 ||
		(len(c.NeighborCodes) == 1 && c.NeighborCodes[0] == countries.IslandSentinel) {
		return islandText
	}

	neighbors, err := r.neighbors.FetchNeighbors(ctx, c.NeighborCodes)
	if err != nil || len(neighbors) == 0 {
		return bordersUnavailable
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Population > neighbors[j].Population
	})

	n := min(len(neighbors), maxNeighborsInClue)
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = neighbors[i].Name
	}
	return strings.Join(names, ", ")
}
