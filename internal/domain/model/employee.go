package model

// Employee is a provisioned worker who may record check-in/out events.
// The TOTP secret is assigned once at provisioning time; there is no
// rotation path, and it must never appear in logs or API responses other
// than the one-time provisioning reply.
type Employee struct {
	ID         string
	Name       string
	TOTPSecret string
}
