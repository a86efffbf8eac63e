package types

import "time"

// TopicCategoryKind is the closed set of topic tags. Automotive and
// Cuisine carry a free-text discriminator (brand/kind).
type TopicCategoryKind string

const (
	TopicGeneral       TopicCategoryKind = "general"
	TopicTechnology    TopicCategoryKind = "technology"
	TopicFinance       TopicCategoryKind = "finance"
	TopicNews          TopicCategoryKind = "news"
	TopicScience       TopicCategoryKind = "science"
	TopicHistory       TopicCategoryKind = "history"
	TopicAutomotive    TopicCategoryKind = "automotive"
	TopicCuisine       TopicCategoryKind = "cuisine"
	TopicHealth        TopicCategoryKind = "health"
	TopicEntertainment TopicCategoryKind = "entertainment"
	TopicSports        TopicCategoryKind = "sports"
	TopicEducation     TopicCategoryKind = "education"
)

// TopicCategory is a TopicCategoryKind plus the Automotive/Cuisine
// discriminator. Discriminator is empty for every other kind.
type TopicCategory struct {
	Kind          TopicCategoryKind
	Discriminator string // brand for Automotive, kind for Cuisine
}

// FreshnessThreshold returns how old a source may be before it is
// considered stale for this topic (spec.md §4.4).
func (t TopicCategory) FreshnessThreshold() time.Duration {
	switch t.Kind {
	case TopicFinance:
		return 2 * time.Hour
	case TopicNews:
		return 24 * time.Hour
	case TopicTechnology:
		return 30 * 24 * time.Hour
	case TopicScience:
		return 365 * 24 * time.Hour
	case TopicHistory:
		return 0 // unbounded
	default:
		return 7 * 24 * time.Hour
	}
}

// Unbounded reports whether FreshnessThreshold should be treated as no
// limit (TopicHistory).
func (t TopicCategory) Unbounded() bool {
	return t.Kind == TopicHistory
}
