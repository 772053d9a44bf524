package entity

import "time"

// Role es el rol de un actor frente al ciclo de vida de las solicitudes.
type Role string

// Roles válidos para User.
const (
	RoleRequester Role = "requester" // solicita asignaciones
	RoleApprover  Role = "approver"  // aprueba, ajusta o rechaza
	RoleIssuer    Role = "issuer"    // registra la entrega física (almacén)
)

// Valid indica si el rol es uno de los tres conocidos.
func (r Role) Valid() bool {
	return r == RoleRequester || r == RoleApprover || r == RoleIssuer
}

// User representa un miembro de la institución.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt
	Name         string
	Department   string
	Email        string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor es la identidad resuelta por el colaborador de autenticación en cada llamada.
type Actor struct {
	ID   string
	Role Role
}
