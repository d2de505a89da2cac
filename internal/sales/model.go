package sales

import "time"

// VendaStatus tracks the sales order lifecycle.
type VendaStatus string

const (
	VendaStatusAberta    VendaStatus = "ABERTA"
	VendaStatusFaturada  VendaStatus = "FATURADA"
	VendaStatusEntregue  VendaStatus = "ENTREGUE"
	VendaStatusCancelada VendaStatus = "CANCELADA"
)

// Venda is a sales order. Depending on the entry path the owner is
// stamped as the seller's account ID (vendedor_id) or the creator's
// login email (created_by).
type Venda struct {
	ID         int64       `json:"id"`
	Numero     string      `json:"numero"`
	ClienteID  int64       `json:"cliente_id"`
	VendedorID int64       `json:"vendedor_id"`
	CreatedBy  string      `json:"created_by"`
	LojaID     string      `json:"loja_id"`
	Status     VendaStatus `json:"status"`
	Total      float64     `json:"total"`
	Notas      *string     `json:"notas,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Field exposes the scoping attributes to the row visibility filter.
func (v Venda) Field(name string) (any, bool) {
	switch name {
	case "vendedor_id":
		return v.VendedorID, v.VendedorID != 0
	case "created_by":
		return v.CreatedBy, v.CreatedBy != ""
	case "loja_id":
		return v.LojaID, v.LojaID != ""
	default:
		return nil, false
	}
}

// Cliente is a customer record. NomeNormalizado holds the accent-folded
// lowercase name used for search.
type Cliente struct {
	ID              int64     `json:"id"`
	Nome            string    `json:"nome"`
	NomeNormalizado string    `json:"-"`
	Email           *string   `json:"email,omitempty"`
	Telefone        *string   `json:"telefone,omitempty"`
	LojaID          string    `json:"loja_id"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

// Field exposes the scoping attributes to the row visibility filter.
func (c Cliente) Field(name string) (any, bool) {
	switch name {
	case "created_by":
		return c.CreatedBy, c.CreatedBy != ""
	case "loja_id":
		return c.LojaID, c.LojaID != ""
	default:
		return nil, false
	}
}
