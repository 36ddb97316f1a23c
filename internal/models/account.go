package models

// Role identifies which account table a principal belongs to.
type Role string

const (
	RolePatient   Role = "PACIENTE"
	RoleCaregiver Role = "CUIDADOR"
	RoleTherapist Role = "TERAPEUTA"
)

// Valid reports whether the role is one of the three known account roles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleCaregiver, RoleTherapist:
		return true
	}
	return false
}

// AccountInfo describes the authenticated account in responses.
type AccountInfo struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"nome"`
	Role  Role   `json:"role"`
}
