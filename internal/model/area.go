// Package model defines the domain types shared across the quiz scoring
// engine, the reference data store, and the CLI/HTTP surfaces.
package model

// Known county slugs for the metro area covered by the reference data.
// County fields on areas and filters are matched case-sensitively against
// these slugs, not against display names.
const (
	CountyMilwaukee  = "milwaukee"
	CountyWaukesha   = "waukesha"
	CountyOzaukee    = "ozaukee"
	CountyWashington = "washington"
)

// KnownCounties lists every county slug reference data may use.
var KnownCounties = []string{
	CountyMilwaukee,
	CountyWaukesha,
	CountyOzaukee,
	CountyWashington,
}

// IsKnownCounty reports whether slug is one of the supported county keys.
func IsKnownCounty(slug string) bool {
	for _, c := range KnownCounties {
		if c == slug {
			return true
		}
	}
	return false
}

// Area is one municipality/neighborhood candidate. Areas are loaded once at
// startup from reference data and are immutable afterwards.
type Area struct {
	ID              string             `json:"id"`
	DisplayName     string             `json:"display_name"`
	County          string             `json:"county"`
	MedianSalePrice float64            `json:"median_sale_price"`
	Attributes      map[string]float64 `json:"attributes"`
	Tags            []string           `json:"tags"`
}

// Attribute returns the named attribute score, defaulting to 0 when the area
// has no entry for it. A missing attribute is never an error.
func (a Area) Attribute(name string) float64 {
	return a.Attributes[name]
}

// ScoredArea is the per-call scoring output for one area. Instances are
// ephemeral; nothing persists them.
type ScoredArea struct {
	ID              string   `json:"id"`
	DisplayName     string   `json:"display_name"`
	County          string   `json:"county"`
	RawScore        float64  `json:"raw_score"`
	NormalizedScore int      `json:"normalized_score"`
	MedianSalePrice float64  `json:"median_sale_price"`
	Tags            []string `json:"tags"`
}
