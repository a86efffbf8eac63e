package types

// SerpQuery is an immutable search-engine request. Once built it is never
// mutated; personas and the loop construct new values instead.
type SerpQuery struct {
	Q        string
	Tbs      string // time-window code, e.g. "past month"; empty if unset
	Location string // empty if unset
}

// WeightedQuery tags a SerpQuery with the persona that produced it and its
// weight, for downstream ranking.
type WeightedQuery struct {
	Query      SerpQuery
	Weight     float64
	SourceName string
}
