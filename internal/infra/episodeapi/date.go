package episodeapi

import (
	"fmt"
	"strings"
	"time"
)

// Supported locales for month abbreviations.
const (
	LocalePtBR = "pt-BR"
	LocaleEn   = "en"
)

var monthNames = map[string][12]string{
	LocalePtBR: {"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"},
	LocaleEn:   {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
}

var publishedLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// IsSupportedLocale reports whether locale has month names.
func IsSupportedLocale(locale string) bool {
	_, ok := monthNames[locale]
	return ok
}

// FormatPublishedAt formats an API timestamp as "D Mon YY".
// Unparseable input is returned unchanged; unknown locales fall back to pt-BR.
func FormatPublishedAt(raw, locale string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	var t time.Time
	var err error
	for _, layout := range publishedLayouts {
		t, err = time.Parse(layout, raw)
		if err == nil {
			break
		}
	}
	if err != nil {
		return raw
	}

	names, ok := monthNames[locale]
	if !ok {
		names = monthNames[LocalePtBR]
	}
	return fmt.Sprintf("%d %s %02d", t.Day(), names[t.Month()-1], t.Year()%100)
}
