// Package languages holds the canonical translation language catalogue.
// The set below is the authoritative 26-language list used both for the
// listener's language selector and for labelling translated output.
package languages

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Default is used when no language is requested or a code is unknown.
const Default = "en"

var supported = map[string]string{
	"af":  "Afrikaans",
	"ar":  "Arabic",
	"zh":  "Chinese (Mandarin)",
	"nl":  "Dutch",
	"en":  "English",
	"fa":  "Farsi (Persian)",
	"fr":  "French",
	"de":  "German",
	"ha":  "Hausa",
	"hi":  "Hindi",
	"it":  "Italian",
	"ja":  "Japanese",
	"ko":  "Korean",
	"mfe": "Mauritian Creole",
	"pcm": "Nigerian Pidgin",
	"pl":  "Polish",
	"pt":  "Portuguese",
	"pa":  "Punjabi",
	"ru":  "Russian",
	"st":  "Sesotho (Lesotho)",
	"es":  "Spanish",
	"ta":  "Tamil",
	"ur":  "Urdu",
	"vi":  "Vietnamese",
	"yo":  "Yoruba",
	"zu":  "Zulu",
}

// Option is one selectable language for the dropdown.
type Option struct {
	Code string `json:"value"`
	Name string `json:"label"`
}

// Supported reports whether code is in the catalogue as-is.
func Supported(code string) bool {
	_, ok := supported[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

// Name returns the display name for a code, or the code itself when it
// is not in the catalogue.
func Name(code string) string {
	if name, ok := supported[strings.ToLower(strings.TrimSpace(code))]; ok {
		return name
	}
	return code
}

// Normalize reduces an ISO-like code (possibly with region, e.g. en-US)
// to a catalogue code, falling back to English for anything unknown.
func Normalize(code string) string {
	trimmed := strings.ToLower(strings.TrimSpace(code))
	if trimmed == "" {
		return Default
	}
	if _, ok := supported[trimmed]; ok {
		return trimmed
	}

	tag, err := language.Parse(trimmed)
	if err != nil {
		return Default
	}
	base, _ := tag.Base()
	if _, ok := supported[base.String()]; ok {
		return base.String()
	}
	return Default
}

// Options lists the catalogue sorted by display name.
func Options() []Option {
	options := make([]Option, 0, len(supported))
	for code, name := range supported {
		options = append(options, Option{Code: code, Name: name})
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Name < options[j].Name })
	return options
}

// Search filters the catalogue case-insensitively against code and name,
// backing the searchable dropdown. An empty query returns everything.
func Search(query string) []Option {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return Options()
	}

	var matches []Option
	for _, option := range Options() {
		if strings.Contains(strings.ToLower(option.Name), query) || strings.Contains(option.Code, query) {
			matches = append(matches, option)
		}
	}
	return matches
}
