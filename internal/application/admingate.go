package application

import (
	"crypto/sha256"
	"crypto/subtle"
)

// AdminGate authorizes administrative operations against one shared secret.
// Both sides are hashed before comparison so the check is constant-time and
// leaks neither content nor length of the configured secret.
type AdminGate struct {
	digest [sha256.Size]byte
}

// NewAdminGate creates a gate for the configured admin secret.
func NewAdminGate(secret string) *AdminGate {
	return &AdminGate{digest: sha256.Sum256([]byte(secret))}
}

// IsAdmin reports whether the provided secret matches the configured one.
func (g *AdminGate) IsAdmin(provided string) bool {
	d := sha256.Sum256([]byte(provided))
	return subtle.ConstantTimeCompare(g.digest[:], d[:]) == 1
}
