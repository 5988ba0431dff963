package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string, used as the partition key for visit
// records. ULIDs are lexicographically sortable by creation time, so visit
// history queries come back in insertion order.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
