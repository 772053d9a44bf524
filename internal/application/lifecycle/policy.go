package lifecycle

import (
	"github.com/jhoicas/Propiedades-api/internal/domain"
	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
)

// Operation acción expuesta que requiere un rol concreto.
type Operation string

// Operaciones sujetas a autorización.
const (
	OpSubmit        Operation = "submit"
	OpApprove       Operation = "approve"
	OpAdjust        Operation = "adjust"
	OpReject        Operation = "reject"
	OpIssue         Operation = "issue"
	OpManageCatalog Operation = "manage_catalog"
	OpViewAll       Operation = "view_all" // listar solicitudes y entregas de otros usuarios
)

// permissions es la única matriz de roles del servicio.
var permissions = map[Operation][]entity.Role{
	OpSubmit:        {entity.RoleRequester},
	OpApprove:       {entity.RoleApprover},
	OpAdjust:        {entity.RoleApprover},
	OpReject:        {entity.RoleApprover},
	OpIssue:         {entity.RoleIssuer},
	OpManageCatalog: {entity.RoleApprover, entity.RoleIssuer},
	OpViewAll:       {entity.RoleApprover, entity.RoleIssuer},
}

// Allowed indica si role puede ejecutar op.
func Allowed(role entity.Role, op Operation) bool {
	for _, r := range permissions[op] {
		if r == role {
			return true
		}
	}
	return false
}

func authorize(actor entity.Actor, op Operation) error {
	if actor.ID == "" || !Allowed(actor.Role, op) {
		return domain.ErrUnauthorized
	}
	return nil
}
