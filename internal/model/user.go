package model

// User roles.
const (
	RoleSuperAdmin = "Super Admin"
	RoleAdmin      = "Admin"
	RolePetugas    = "Petugas"
)

// UserStatusActive is the literal an account must carry to log in.
const UserStatusActive = "Aktif"

// User is an application account stored in the document's users map.
// The credential is kept in plaintext, a legacy weakness preserved
// deliberately, not fixed here.
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	JoinDate string `json:"joinDate,omitempty"`
	Password string `json:"password,omitempty"`
}

// Sanitized returns a copy with the credential stripped, for anything
// that leaves the core (API responses, tokens).
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
