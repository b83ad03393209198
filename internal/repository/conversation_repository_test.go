package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLikePatternMatchesLiterally(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		want    string
	}{
		{"plain", "kubernetes", "kubernetes"},
		{"percent", "100% done", `100\% done`},
		{"underscore", "snake_case", `snake\_case`},
		{"backslash", `C:\temp`, `C:\\temp`},
		{"escaped wildcard stays literal", `\%`, `\\\%`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeLikePattern(tt.keyword))
		})
	}
}
