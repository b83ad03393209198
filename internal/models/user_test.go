package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChangedPasswordAfter(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		changedAt *time.Time
		issuedAt  time.Time
		want      bool
	}{
		{"never changed", nil, base, false},
		{"issued before change", timePtr(base), base.Add(-time.Minute), true},
		{"issued after change", timePtr(base), base.Add(time.Minute), false},
		{"same second", timePtr(base.Add(500 * time.Millisecond)), base, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := User{PasswordChangedAt: tt.changedAt}
			assert.Equal(t, tt.want, user.ChangedPasswordAfter(tt.issuedAt))
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }
