package domain

// NationalID is the national-identity string that identifies an account.
// It is also the subject carried by bearer tokens.
type NationalID string

// Role is the account type embedded in issued tokens.
type Role string

const (
	RoleCitizen  Role = "citizen"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleOperator, RoleAdmin:
		return true
	default:
		return false
	}
}
