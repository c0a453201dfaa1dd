package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleVendedor = "vendedor"
)

// User representa un usuario del back office.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt, nunca en texto plano
	Role         string
	CreatedAt    time.Time
}

// ValidRole indica si role es uno de los roles soportados.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleVendedor
}
