package delivery

import "time"

// EntregaStatus tracks the delivery order lifecycle.
type EntregaStatus string

const (
	EntregaStatusPendente  EntregaStatus = "PENDENTE"
	EntregaStatusEmRota    EntregaStatus = "EM_ROTA"
	EntregaStatusEntregue  EntregaStatus = "ENTREGUE"
	EntregaStatusDevolvida EntregaStatus = "DEVOLVIDA"
)

// Entrega is a delivery order tied to a sales order. Ownership is
// recorded two ways: the assigned driver's login email
// (entregador_email) and the dispatching clerk's account ID
// (responsavel_id). Either one marks the row as the user's own.
type Entrega struct {
	ID              int64         `json:"id"`
	VendaID         int64         `json:"venda_id"`
	EntregadorEmail string        `json:"entregador_email"`
	ResponsavelID   int64         `json:"responsavel_id"`
	LojaID          string        `json:"loja_id"`
	Endereco        string        `json:"endereco"`
	Status          EntregaStatus `json:"status"`
	AgendadaPara    *time.Time    `json:"agendada_para,omitempty"`
	EntregueEm      *time.Time    `json:"entregue_em,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Field exposes the scoping attributes to the row visibility filter.
func (e Entrega) Field(name string) (any, bool) {
	switch name {
	case "entregador_email":
		return e.EntregadorEmail, e.EntregadorEmail != ""
	case "responsavel_id":
		return e.ResponsavelID, e.ResponsavelID != 0
	case "loja_id":
		return e.LojaID, e.LojaID != ""
	default:
		return nil, false
	}
}
