package model

import (
	"strconv"

	"github.com/google/uuid"
)

// GenerateUUID creates a new UUID string.
func GenerateUUID() string {
	return uuid.New().String()
}

// DeriveUUID returns a name-based UUID for a stored entry that has none.
// The same position and path always yield the same ID.
func DeriveUUID(no int, path string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("dm:"+strconv.Itoa(no)+":"+path)).String()
}
