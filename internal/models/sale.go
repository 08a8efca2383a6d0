package models

import (
	"time"

	"github.com/google/uuid"
)

// Buyer holds the personal data typed in the checkout form.
type Buyer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	CpfCnpj string `json:"cpfCnpj"`
}

type Phone struct {
	Area   string `json:"area"`
	Number string `json:"number"`
}

type Address struct {
	Street     string `json:"rua"`
	Number     string `json:"numero"`
	Complement string `json:"complemento,omitempty"`
	District   string `json:"bairro"`
	City       string `json:"cidade"`
	State      string `json:"uf"`
	PostalCode string `json:"cep"`
}

// CartItem is a product line as sent by the storefront cart.
type CartItem struct {
	CodPro   string  `json:"codpro"`
	Name     string  `json:"produto"`
	Quantity int     `json:"quantidade"`
	Price    float64 `json:"preco"`
}

// CheckoutRequest is the body of POST /api/vendas/pix.
type CheckoutRequest struct {
	Buyer   Buyer      `json:"dadosPessoais"`
	Phone   Phone      `json:"dadosTelefone"`
	Address Address    `json:"endereco"`
	Items   []CartItem `json:"produtos"`
	CodCli  string     `json:"codCli"`
}

// Sale is a row of the venda table.
type Sale struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	CodCli         string     `json:"codcli" db:"codcli"`
	Subtotal       float64    `json:"subtotal" db:"subtotal"`
	Shipping       float64    `json:"frete" db:"frete"`
	Total          float64    `json:"total" db:"total"`
	PixText        string     `json:"pix_text" db:"pix_text"`
	ExpirationDate *time.Time `json:"expiration_date" db:"expiration_date"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// PixLink is a hypermedia link returned by the PIX provider; the first one
// points at the QR code image.
type PixLink struct {
	Rel   string `json:"rel"`
	Href  string `json:"href"`
	Media string `json:"media"`
	Type  string `json:"type"`
}

type PixAmount struct {
	Value int64 `json:"value"`
}

// PixCharge is the QR code payload shown to the buyer.
type PixCharge struct {
	ID             string    `json:"id,omitempty"`
	Text           string    `json:"text"`
	Amount         PixAmount `json:"amount"`
	ExpirationDate string    `json:"expiration_date"`
	Links          []PixLink `json:"links"`
}

// CheckoutResult is returned to the storefront after a successful charge.
type CheckoutResult struct {
	SaleID uuid.UUID `json:"idVenda"`
	PixCharge
}
