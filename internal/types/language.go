// Package types holds the value types shared across the research agent:
// languages, topics, search queries and the scored snippets/references
// that flow between the search client and the agent context.
package types

import "strings"

// Language is the closed set of languages the agent can detect and steer
// personas/instructions toward.
type Language string

const (
	LanguageEnglish    Language = "english"
	LanguagePortuguese Language = "portuguese"
	LanguageSpanish    Language = "spanish"
	LanguageGerman     Language = "german"
	LanguageFrench     Language = "french"
	LanguageItalian    Language = "italian"
	LanguageJapanese   Language = "japanese"
	LanguageChinese    Language = "chinese"
	LanguageKorean     Language = "korean"
	LanguageOther      Language = "other"
)

// localeAliases maps common locale/language codes to the closed tag set.
// Case-insensitive; keys are already lower-cased.
var localeAliases = map[string]Language{
	"en":        LanguageEnglish,
	"en-us":     LanguageEnglish,
	"en-gb":     LanguageEnglish,
	"english":   LanguageEnglish,
	"pt":        LanguagePortuguese,
	"pt-br":     LanguagePortuguese,
	"pt-pt":     LanguagePortuguese,
	"portuguese": LanguagePortuguese,
	"es":        LanguageSpanish,
	"es-es":     LanguageSpanish,
	"es-mx":     LanguageSpanish,
	"spanish":   LanguageSpanish,
	"de":        LanguageGerman,
	"de-de":     LanguageGerman,
	"german":    LanguageGerman,
	"fr":        LanguageFrench,
	"fr-fr":     LanguageFrench,
	"french":    LanguageFrench,
	"it":        LanguageItalian,
	"it-it":     LanguageItalian,
	"italian":   LanguageItalian,
	"ja":        LanguageJapanese,
	"ja-jp":     LanguageJapanese,
	"japanese":  LanguageJapanese,
	"zh":        LanguageChinese,
	"zh-cn":     LanguageChinese,
	"zh-tw":     LanguageChinese,
	"chinese":   LanguageChinese,
	"ko":        LanguageKorean,
	"ko-kr":     LanguageKorean,
	"korean":    LanguageKorean,
}

// ParseLanguage resolves a locale code or language name to the closed tag
// set, case-insensitively. Unrecognized input resolves to LanguageOther.
func ParseLanguage(s string) Language {
	key := strings.ToLower(strings.TrimSpace(s))
	if lang, ok := localeAliases[key]; ok {
		return lang
	}
	return LanguageOther
}

// Instruction returns the LLM system-prompt instruction for responding in
// this language.
func (l Language) Instruction() string {
	switch l {
	case LanguagePortuguese:
		return "Respond in Portuguese."
	case LanguageSpanish:
		return "Respond in Spanish."
	case LanguageGerman:
		return "Respond in German."
	case LanguageFrench:
		return "Respond in French."
	case LanguageItalian:
		return "Respond in Italian."
	case LanguageJapanese:
		return "Respond in Japanese."
	case LanguageChinese:
		return "Respond in Chinese."
	case LanguageKorean:
		return "Respond in Korean."
	case LanguageOther:
		return "Respond in the same language as the question."
	default:
		return "Respond in English."
	}
}
