package entity

import (
	"fmt"
	"time"
)

// RequestRecord es la forma plana en que los adaptadores persisten el estado de una solicitud
// (columnas status, approved_quantity, reason, approver_id, issuer_id, issued_at).
// approved_quantity solo se guarda para asignaciones ajustadas.
type RequestRecord struct {
	Status           RequestStatus
	ApprovedQuantity *int
	Reason           *string
	ApproverID       *string
	IssuerID         *string
	IssuedAt         *time.Time
}

// Record aplana el estado de la solicitud.
func (r *Request) Record() RequestRecord {
	rec := RequestRecord{Status: r.Status()}
	switch s := r.State.(type) {
	case Approved:
		rec.ApproverID = &s.ApproverID
	case Adjusted:
		rec.ApproverID = &s.ApproverID
		rec.ApprovedQuantity = &s.ApprovedQuantity
		rec.Reason = &s.Reason
	case Rejected:
		rec.ApproverID = &s.ApproverID
		rec.Reason = &s.Reason
	case Issued:
		if adj, ok := s.From.(Adjusted); ok {
			rec.ApprovedQuantity = &adj.ApprovedQuantity
			rec.Reason = &adj.Reason
		}
		if s.From != nil {
			approver := s.From.Approver()
			rec.ApproverID = &approver
		}
		rec.IssuerID = &s.IssuerID
		issuedAt := s.IssuedAt
		rec.IssuedAt = &issuedAt
	}
	return rec
}

// RestoreState reconstruye la variante de estado a partir de la forma plana.
func RestoreState(requestedQuantity int, rec RequestRecord) (RequestState, error) {
	approver := deref(rec.ApproverID)
	reason := deref(rec.Reason)
	allocation := func() Allocation {
		if rec.ApprovedQuantity != nil {
			return Adjusted{ApproverID: approver, ApprovedQuantity: *rec.ApprovedQuantity, Reason: reason}
		}
		return Approved{ApproverID: approver, Quantity: requestedQuantity}
	}
	switch rec.Status {
	case StatusPending:
		return Pending{}, nil
	case StatusApproved, StatusAdjusted:
		if rec.Status == StatusAdjusted && rec.ApprovedQuantity == nil {
			return nil, fmt.Errorf("solicitud adjusted sin approved_quantity")
		}
		return allocation(), nil
	case StatusRejected:
		return Rejected{ApproverID: approver, Reason: reason}, nil
	case StatusIssued:
		if rec.IssuedAt == nil {
			return nil, fmt.Errorf("solicitud issued sin issued_at")
		}
		return Issued{From: allocation(), IssuerID: deref(rec.IssuerID), IssuedAt: *rec.IssuedAt}, nil
	}
	return nil, fmt.Errorf("estado de solicitud desconocido: %q", rec.Status)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
