// Package countries talks to the two upstream data providers, the REST
// Countries directory and the World Bank per-country endpoint, and caches
// the filtered country pool. It carries no game logic.
package countries

import "errors"

// ErrDataUnavailable is returned when an upstream fetch fails or times out.
// Callers treat it as a rejected candidate, not a fatal condition.
var ErrDataUnavailable = errors.New("country data unavailable")

// IslandSentinel marks a country with no land borders. The pool fetch
// substitutes it for an empty border list so the neighbor clue always has
// something to render.
const IslandSentinel = "Island"

type Country struct {
	Name          string
	ISO2          string
	Population    int64
	Capital       string
	CurrencyCode  string
	NeighborCodes []string
	FlagURL       string
}

// Neighbor is a bordering country as returned by the directory, in
// catalog order.
type Neighbor struct {
	Name       string
	Population int64
}

// GeoClue holds the per-country data from the World Bank endpoint. Nil
// coordinates mean the country cannot be placed on a map and is therefore
// ineligible for selection.
type GeoClue struct {
	Lat         *float64
	Lng         *float64
	IncomeLevel string
}

func (g GeoClue) HasCoordinates() bool {
	return g.Lat != nil && g.Lng != nil
}
