package persona

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"go-deepresearch/internal/types"
)

var failureModeTerms = []string{"problems", "issues", "failures", "limitations", "drawbacks"}

func topicPhrase(query string) string {
	return strings.Join(extractMainTopic(query), " ")
}

// NewExpertSkeptic focuses on failure modes and limitations. The failure
// term is chosen nondeterministically — the only allowed source of
// nondeterminism among the default personas.
func NewExpertSkeptic() Persona {
	return Persona{
		Name:   "expert_skeptic",
		Weight: 1.0,
		Expand: func(query string, ctx QueryContext) types.SerpQuery {
			term := failureModeTerms[rand.Intn(len(failureModeTerms))]
			return types.SerpQuery{Q: fmt.Sprintf("%s %s real experiences", topicPhrase(query), term)}
		},
	}
}

// NewDetailAnalyst focuses on specifications.
func NewDetailAnalyst() Persona {
	return Persona{
		Name:   "detail_analyst",
		Weight: 1.0,
		Expand: func(query string, ctx QueryContext) types.SerpQuery {
			return types.SerpQuery{Q: topicPhrase(query) + " specifications technical details comparison"}
		},
	}
}

// NewHistoricalResearcher focuses on evolution over time.
func NewHistoricalResearcher() Persona {
	return Persona{
		Name:   "historical_researcher",
		Weight: 1.0,
		Expand: func(query string, ctx QueryContext) types.SerpQuery {
			yearMinus5 := strconv.Itoa(time.Now().Year() - 5)
			return types.SerpQuery{
				Q:   fmt.Sprintf("%s history evolution %s changes", topicPhrase(query), yearMinus5),
				Tbs: "past year",
			}
		},
	}
}

// NewComparativeThinker focuses on alternatives.
func NewComparativeThinker() Persona {
	return Persona{
		Name:   "comparative_thinker",
		Weight: 1.0,
		Expand: func(query string, ctx QueryContext) types.SerpQuery {
			return types.SerpQuery{Q: topicPhrase(query) + " vs alternatives comparison pros cons"}
		},
	}
}

// NewTemporalContext focuses on recency; weighted above the default 1.0.
func NewTemporalContext() Persona {
	return Persona{
		Name:   "temporal_context",
		Weight: 1.2,
		Expand: func(query string, ctx QueryContext) types.SerpQuery {
			now := time.Now()
			return types.SerpQuery{
				Q:   fmt.Sprintf("%s %d %s", topicPhrase(query), now.Year(), now.Month().String()),
				Tbs: "past month",
			}
		},
	}
}

// germanAutomotiveBrands and japaneseAutomotiveBrands drive the
// Globalizer's language-steering rule for TopicAutomotive.
var germanAutomotiveBrands = map[string]bool{
	"bmw": true, "mercedes": true, "mercedes-benz": true, "audi": true,
	"volkswagen": true, "vw": true, "porsche": true, "opel": true,
}
var japaneseAutomotiveBrands = map[string]bool{
	"toyota": true, "honda": true, "nissan": true, "mazda": true,
	"subaru": true, "mitsubishi": true, "suzuki": true, "lexus": true,
}
var italianCuisine = map[string]bool{"italian": true}
var frenchCuisine = map[string]bool{"french": true}
var japaneseCuisine = map[string]bool{"japanese": true, "sushi": true, "ramen": true}

// automotiveTranslations is a minimal phrase dictionary used to steer the
// query toward the brand's home-market language without an LLM round
// trip. It is intentionally small: it covers the handful of terms that
// dominate automotive/cuisine search queries, not general translation.
var automotiveTranslations = map[string]map[string]string{
	"de": {
		"best": "beste", "price": "preis", "review": "testbericht",
		"reliability": "zuverlässigkeit", "manual": "bedienungsanleitung",
		"problems": "probleme", "specs": "technische daten",
	},
	"ja": {
		"best": "ベスト", "price": "価格", "review": "レビュー",
		"reliability": "信頼性", "manual": "マニュアル",
		"problems": "問題", "specs": "スペック",
	},
}

func translate(query, lang string) string {
	dict := automotiveTranslations[lang]
	words := strings.Fields(query)
	for i, w := range words {
		lower := strings.ToLower(strings.Trim(w, ".,!?"))
		if t, ok := dict[lower]; ok {
			words[i] = t
		}
	}
	return strings.Join(words, " ")
}

// NewGlobalizer steers toward the authoritative language/market for the
// topic: German/Japanese automotive brands, Italian/French/Japanese
// cuisine, Technology -> San Francisco, Finance -> New York. Everything
// else passes through unchanged.
func NewGlobalizer() Persona {
	return Persona{
		Name:   "globalizer",
		Weight: 1.0,
		Expand: func(query string, ctx QueryContext) types.SerpQuery {
			topic := topicPhrase(query)
			switch ctx.Topic.Kind {
			case types.TopicAutomotive:
				brand := strings.ToLower(ctx.Topic.Discriminator)
				if germanAutomotiveBrands[brand] {
					return types.SerpQuery{Q: translate(topic, "de"), Location: "Germany"}
				}
				if japaneseAutomotiveBrands[brand] {
					return types.SerpQuery{Q: translate(topic, "ja"), Location: "Japan"}
				}
			case types.TopicCuisine:
				kind := strings.ToLower(ctx.Topic.Discriminator)
				if italianCuisine[kind] {
					return types.SerpQuery{Q: topic, Location: "Italy"}
				}
				if frenchCuisine[kind] {
					return types.SerpQuery{Q: topic, Location: "France"}
				}
				if japaneseCuisine[kind] {
					return types.SerpQuery{Q: topic, Location: "Japan"}
				}
			case types.TopicTechnology:
				return types.SerpQuery{Q: topic, Location: "San Francisco"}
			case types.TopicFinance:
				return types.SerpQuery{Q: topic, Location: "New York"}
			}
			return types.SerpQuery{Q: topic}
		},
	}
}

// polarityAntonyms is the closed negation table the Reality Skepticalist
// applies before appending its debunking suffix.
var polarityAntonyms = map[string]string{
	"best":    "worst",
	"worst":   "best",
	"good":    "bad",
	"bad":     "good",
	"benefit": "drawback",
	"drawback": "benefit",
}

func negatePolarity(query string) string {
	words := strings.Fields(query)
	for i, w := range words {
		lower := strings.ToLower(strings.Trim(w, ".,!?"))
		if ant, ok := polarityAntonyms[lower]; ok {
			words[i] = ant
		}
	}
	return strings.Join(words, " ")
}

// NewRealitySkepticalist negates polarity words and appends a
// contradiction-seeking suffix.
func NewRealitySkepticalist() Persona {
	return Persona{
		Name:   "reality_skepticalist",
		Weight: 1.0,
		Expand: func(query string, ctx QueryContext) types.SerpQuery {
			return types.SerpQuery{Q: negatePolarity(topicPhrase(query)) + " wrong myth debunked evidence against"}
		},
	}
}

// DefaultPersonas returns the seven built-in cognitive personas.
func DefaultPersonas() []Persona {
	return []Persona{
		NewExpertSkeptic(),
		NewDetailAnalyst(),
		NewHistoricalResearcher(),
		NewComparativeThinker(),
		NewTemporalContext(),
		NewGlobalizer(),
		NewRealitySkepticalist(),
	}
}
