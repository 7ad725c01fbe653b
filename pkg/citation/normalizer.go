package citation

import (
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Citation pairs the human-readable label shown to the customer with the
// raw storage locator the index returned it from.
type Citation struct {
	Label   string `json:"label"`
	Locator string `json:"locator"`
}

// Normalize turns raw passage locators into display labels. The label is
// the final path segment with its extension removed, underscores replaced
// by spaces and each word title-cased. Duplicate labels collapse to the
// first occurrence; input order is otherwise preserved. Empty locators
// are dropped.
func Normalize(locators []string) []Citation {
	out := make([]Citation, 0, len(locators))
	seen := make(map[string]bool, len(locators))

	for _, loc := range locators {
		label := Label(loc)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, Citation{Label: label, Locator: loc})
	}
	return out
}

// Label derives the display label for a single locator.
func Label(locator string) string {
	name := locator
	if i := strings.Index(name, "://"); i >= 0 {
		name = name[i+3:]
	}
	name = path.Base(strings.TrimSuffix(name, "/"))
	if name == "." || name == "/" {
		return ""
	}
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")

	words := strings.Fields(name)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
