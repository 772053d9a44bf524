package entity

import "time"

// Issuance es el registro permanente de que el stock salió físicamente del almacén.
// Copia los datos de la solicitud y de la propiedad para que sobrevivan a ediciones posteriores.
// Nunca se actualiza ni se elimina.
type Issuance struct {
	ID                  string
	RequestID           string
	PropertyID          string
	RequesterID         string
	RequesterName       string
	RequesterDepartment string
	PropertyNumber      string
	PropertyName        string
	ModelNumber         string
	SerialNumber        string
	Measurement         string
	IssuedQuantity      int
	IssuerID            string
	IssuerName          string
	IsPermanent         bool
	Model22Number       string // número del formulario Modelo 22 (opcional)
	IssuedAt            time.Time
}
