package storage

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleOperator Role = "OPERATOR"
)

// User is an account of the shop floor. Password is accepted on input only;
// what gets persisted is PasswordHash.
type User struct {
	ID               string `json:"id"`
	Username         string `json:"username" validate:"required"`
	Password         string `json:"password,omitempty"`
	PasswordHash     string `json:"passwordHash,omitempty"`
	FullName         string `json:"fullName" validate:"required"`
	Role             Role   `json:"role" validate:"oneof=ADMIN OPERATOR"`
	DefaultMachineID string `json:"defaultMachineId,omitempty"`
}

// Public returns the user without any credential material.
func (u User) Public() User {
	u.Password = ""
	u.PasswordHash = ""
	return u
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Machine struct {
	ID   string `json:"id"`
	Name string `json:"name" validate:"required"`
}
