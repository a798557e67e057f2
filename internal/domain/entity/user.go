package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User usuario de la aplicación; el username viaja en el JWT y queda en la auditoría.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	FullName     string
	Role         string
	Active       bool
	CreatedAt    time.Time
}
