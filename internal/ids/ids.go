package ids

import "github.com/segmentio/ksuid"

// New returns a sortable unique id for accounts and conversations.
func New() string {
	return ksuid.New().String()
}
