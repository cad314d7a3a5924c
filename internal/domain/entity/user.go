package entity

import "time"

// Roles válidos para User.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User representa una cuenta de la tienda.
type User struct {
	ID           string
	Email        string // único, en minúsculas
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // user, admin
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin indica si el usuario puede administrar el catálogo.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
