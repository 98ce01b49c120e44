package ids

import "github.com/segmentio/ksuid"

// New returns a sortable unique id for a new entity.
func New() string {
	return ksuid.New().String()
}
