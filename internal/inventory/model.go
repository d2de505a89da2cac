package inventory

import "time"

// Produto is a catalog item sold across stores.
type Produto struct {
	ID        int64     `json:"id"`
	SKU       string    `json:"sku"`
	Nome      string    `json:"nome"`
	Categoria string    `json:"categoria"`
	Preco     float64   `json:"preco"`
	Ativo     bool      `json:"ativo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StockLevel is the on-hand quantity of a product at one store. Stock
// rows carry no owner; visibility is store-based only.
type StockLevel struct {
	ProdutoID  int64     `json:"produto_id"`
	SKU        string    `json:"sku"`
	Nome       string    `json:"nome"`
	LojaID     string    `json:"loja_id"`
	Quantidade int       `json:"quantidade"`
	Minimo     int       `json:"minimo"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Field exposes the scoping attributes to the row visibility filter.
func (s StockLevel) Field(name string) (any, bool) {
	if name == "loja_id" {
		return s.LojaID, s.LojaID != ""
	}
	return nil, false
}
