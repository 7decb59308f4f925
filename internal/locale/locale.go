package locale

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Supported locale codes. Base is the journal's own language and the
// default whenever a requested locale cannot be matched.
const (
	Base    = "pt-br"
	English = "en"
)

// supported is ordered to line up with codes; the first entry is the matcher default
var (
	supported = []language.Tag{language.BrazilianPortuguese, language.English}
	codes     = []string{Base, English}
	suffixes  = []string{"pt", "en"}
	matcher   = language.NewMatcher(supported)
)

// Codes returns all supported locale codes, base first
func Codes() []string {
	return append([]string(nil), codes...)
}

// Context is the explicit locale passed to every formatting function
type Context struct {
	code    string
	suffix  string
	tag     language.Tag
	printer *message.Printer
}

// New matches a requested locale (e.g. "en-US", "pt", "pt-BR") against the
// supported locales. Unknown or empty requests resolve to Base.
func New(requested string) *Context {
	_, idx := language.MatchStrings(matcher, strings.ToLower(requested))
	if idx < 0 || idx >= len(codes) {
		idx = 0
	}
	return &Context{
		code:    codes[idx],
		suffix:  suffixes[idx],
		tag:     supported[idx],
		printer: message.NewPrinter(supported[idx]),
	}
}

// Code returns the canonical locale code ("pt-br" or "en")
func (c *Context) Code() string {
	return c.code
}

// Tag returns the BCP 47 tag of the locale
func (c *Context) Tag() language.Tag {
	return c.tag
}

// T looks up a display string, falling back to the base table and then to the key itself
func (c *Context) T(key string) string {
	if s, ok := translations[c.code][key]; ok {
		return s
	}
	if s, ok := translations[Base][key]; ok {
		return s
	}
	return key
}

// Translations returns a copy of the full table for the locale
func (c *Context) Translations() map[string]string {
	out := make(map[string]string, len(translations[Base]))
	for k, v := range translations[Base] {
		out[k] = v
	}
	for k, v := range translations[c.code] {
		out[k] = v
	}
	return out
}

// Field resolves a locale-qualified property: name_<locale>, then name_pt,
// then the unqualified name. Empty strings count as missing.
func (c *Context) Field(props map[string]interface{}, name string) string {
	candidates := []string{name + "_" + c.suffix, name + "_" + suffixes[0], name}
	for _, key := range candidates {
		if s := stringValue(props[key]); s != "" {
			return s
		}
	}
	return ""
}

// FormatDistance renders a distance in kilometres with locale-aware separators
func (c *Context) FormatDistance(km float64) string {
	if km == float64(int64(km)) {
		return c.printer.Sprintf("%d km", int64(km))
	}
	return c.printer.Sprintf("%.1f km", km)
}

func stringValue(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(s)
	}
}
