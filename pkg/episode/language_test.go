package episode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		code string
		want string
		ok   bool
	}{
		{"en", "eng", true},
		{"eng", "eng", true},
		{"EN", "eng", true},
		{"ja", "jpn", true},
		{"jpn", "jpn", true},
		{"fre", "fra", true},
		{"ger", "deu", true},
		{"chi", "zho", true},
		{"spa", "spa", true},
		{"und", "", false},
		{"the", "", false},
		{"e", "", false},
		{"engl", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := ParseLanguage(tt.code)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLanguageSuffix_LowerCaseOnly(t *testing.T) {
	_, ok := languageSuffix("Eng")
	assert.False(t, ok)

	code, ok := languageSuffix("eng")
	assert.True(t, ok)
	assert.Equal(t, "eng", code)
}
