package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFilter(t *testing.T) {
	filter, err := buildFilter("owner", ListQuery{
		Tags:        "work, important",
		From:        "2024-01-01",
		To:          "2024-01-31",
		Keyword:     "golang",
		CreatedOnly: "true",
	})
	require.NoError(t, err)

	assert.Equal(t, "owner", filter.UserID)
	assert.Equal(t, []string{"work", "important"}, filter.Tags)
	assert.True(t, filter.CreatedOnly)
	assert.Equal(t, "golang", filter.Keyword)
	require.NotNil(t, filter.From)
	require.NotNil(t, filter.To)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *filter.From)
	// a bare date as upper bound covers the whole day
	assert.Equal(t, 31, filter.To.Day())
	assert.Equal(t, 23, filter.To.Hour())
}

func TestBuildFilterRFC3339(t *testing.T) {
	filter, err := buildFilter("owner", ListQuery{From: "2024-01-01T08:30:00Z"})
	require.NoError(t, err)
	require.NotNil(t, filter.From)
	assert.Equal(t, 8, filter.From.Hour())
}

func TestBuildFilterRejectsUnknownTag(t *testing.T) {
	_, err := buildFilter("owner", ListQuery{Tags: "work,urgent"})
	assert.Error(t, err)
}

func TestBuildFilterCreatedOnlyOffByDefault(t *testing.T) {
	filter, err := buildFilter("owner", ListQuery{CreatedOnly: "yes"})
	require.NoError(t, err)
	assert.False(t, filter.CreatedOnly, `anything but "true" means message-level filtering`)
}
