package domain

import "time"

const (
	RolePatient      = "patient"
	RoleDoctor       = "doctor"
	RoleReceptionist = "receptionist"
)

// ValidRole reports whether role is one of the roles known to the system.
func ValidRole(role string) bool {
	switch role {
	case RolePatient, RoleDoctor, RoleReceptionist:
		return true
	}
	return false
}

// User models an authenticated actor: a patient, a doctor, or a receptionist.
// PasswordHash and the reset-token fields never leave the process boundary.
type User struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	PasswordHash        string    `json:"-"`
	Role                string    `json:"role"`
	ResetTokenHash      string    `json:"-"`
	ResetTokenExpiresAt time.Time `json:"-"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
