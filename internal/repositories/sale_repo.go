package repositories

import (
	"context"

	"github.com/softline/vitrine/internal/models"
)

type SaleRepository interface {
	Create(ctx context.Context, sale *models.Sale) error
}

type saleRepo struct {
	db Database
}

func NewSaleRepo(db Database) SaleRepository {
	return &saleRepo{db: db}
}

func (r *saleRepo) Create(ctx context.Context, sale *models.Sale) error {
	query := `
		INSERT INTO venda (id, codcli, subtotal, frete, total, pix_text, expiration_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query, sale.ID, sale.CodCli, sale.Subtotal, sale.Shipping, sale.Total, sale.PixText, sale.ExpirationDate).
		Scan(&sale.CreatedAt)
}
