package device

import "github.com/google/uuid"

// canonicalUUIDLen is the length of the 8-4-4-4-12 textual form.
const canonicalUUIDLen = 36

// IsUUIDv4 reports whether token is a canonical, RFC 4122 version 4 UUID.
// Well-formed UUIDs of other versions are rejected.
func IsUUIDv4(token string) bool {
	if len(token) != canonicalUUIDLen {
		return false
	}
	id, err := uuid.Parse(token)
	if err != nil {
		return false
	}
	return id.Version() == 4 && id.Variant() == uuid.RFC4122
}
