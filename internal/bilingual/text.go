// Package bilingual holds the English/Marathi value type used by every
// content record, and Field, the auto-translating editor for one such value.
package bilingual

import (
	"strings"

	"golang.org/x/text/language"
)

// Text is one logical value in English and Marathi. En is the source for
// automatic translation; Mr may be overridden by hand at any time.
type Text struct {
	En string `json:"en" yaml:"en"`
	Mr string `json:"mr" yaml:"mr"`
}

func (t Text) IsZero() bool {
	return t.En == "" && t.Mr == ""
}

// NeedsTranslation is true when only the English side is filled in.
func (t Text) NeedsTranslation() bool {
	return strings.TrimSpace(t.En) != "" && strings.TrimSpace(t.Mr) == ""
}

// Localized returns the Marathi text for Marathi tags and English otherwise,
// falling back to whichever side is filled in.
func (t Text) Localized(tag language.Tag) string {
	if base, _ := tag.Base(); base.String() == "mr" {
		if t.Mr != "" {
			return t.Mr
		}
		return t.En
	}
	if t.En != "" {
		return t.En
	}
	return t.Mr
}

var supported = []language.Tag{language.English, language.Marathi}

var matcher = language.NewMatcher(supported)

// MatchLanguage picks English or Marathi for an explicit ?lang= value or,
// failing that, an Accept-Language header. English is the default.
func MatchLanguage(explicit, acceptLanguage string) language.Tag {
	if explicit != "" {
		if tag, err := language.Parse(explicit); err == nil {
			_, idx, conf := matcher.Match(tag)
			if conf != language.No {
				return supported[idx]
			}
		}
	}
	if acceptLanguage != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(tags) > 0 {
			_, idx, conf := matcher.Match(tags...)
			if conf != language.No {
				return supported[idx]
			}
		}
	}
	return language.English
}
