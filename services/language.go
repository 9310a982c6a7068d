package services

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// SupportedLanguages are the response languages the analyzer accepts.
var SupportedLanguages = []language.Tag{
	language.English,
	language.Hindi,
	language.Tamil,
	language.Telugu,
	language.Kannada,
	language.Bengali,
	language.Marathi,
	language.Gujarati,
	language.Punjabi,
}

var languageMatcher = language.NewMatcher(SupportedLanguages)

// ResolveLanguage maps a requested code (e.g. "hi", "ta-IN") to a supported
// language code and its English display name. Unknown codes fall back to
// English.
func ResolveLanguage(code string) (string, string) {
	tag, err := language.Parse(code)
	if err != nil {
		return "en", "English"
	}
	_, idx, conf := languageMatcher.Match(tag)
	if conf < language.High {
		return "en", "English"
	}
	matched := SupportedLanguages[idx]
	base, _ := matched.Base()
	return base.String(), display.English.Tags().Name(matched)
}
