package episodeapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPublishedAt(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		locale   string
		expected string
	}{
		{name: "space separated", raw: "2021-01-22 10:00:00", locale: LocalePtBR, expected: "22 jan 21"},
		{name: "rfc3339", raw: "2020-12-01T08:00:00Z", locale: LocalePtBR, expected: "1 dez 20"},
		{name: "english", raw: "2020-02-10", locale: LocaleEn, expected: "10 Feb 20"},
		{name: "unknown locale falls back", raw: "2021-05-03", locale: "xx", expected: "3 mai 21"},
		{name: "unparseable kept", raw: "yesterday", locale: LocalePtBR, expected: "yesterday"},
		{name: "empty", raw: "", locale: LocalePtBR, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPublishedAt(tt.raw, tt.locale))
		})
	}
}

func TestIsSupportedLocale(t *testing.T) {
	assert.True(t, IsSupportedLocale("pt-BR"))
	assert.True(t, IsSupportedLocale("en"))
	assert.False(t, IsSupportedLocale("de"))
}
