package bridge

import (
	"golang.org/x/text/language"
)

// Language selects which instruction template variant is sent.
type Language string

const (
	English    Language = "en"
	Vietnamese Language = "vi"
)

var (
	supported = []language.Tag{language.English, language.Vietnamese}
	matcher   = language.NewMatcher(supported)
)

// ParseLanguage accepts a language code or an Accept-Language header value and
// returns the closest supported language, falling back to English.
func ParseLanguage(s string) Language {
	if s == "" {
		return English
	}
	tags, _, err := language.ParseAcceptLanguage(s)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return English
	}
	if supported[index] == language.Vietnamese {
		return Vietnamese
	}
	return English
}
