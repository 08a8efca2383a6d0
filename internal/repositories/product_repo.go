package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/softline/vitrine/internal/models"

	"github.com/jackc/pgx/v5"
)

type ProductRepository interface {
	GetByCode(ctx context.Context, codpro string) (*models.Product, error)
	GetImageSlot(ctx context.Context, codpro, slot string) (*string, error)
	SetImageSlot(ctx context.Context, codpro, slot string, fileName *string) error
	GetImages(ctx context.Context, codpro string) (map[string]*string, error)
	ListImageReferences(ctx context.Context) ([]models.ImageReference, error)
}

type productRepo struct {
	db Database
}

func NewProductRepo(db Database) ProductRepository {
	return &productRepo{db: db}
}

// slotColumn returns the quoted column for slot. Slot names arrive from the
// URL, so only the known columns are ever interpolated into SQL.
func slotColumn(slot string) (string, error) {
	if !models.IsImageSlot(slot) {
		return "", fmt.Errorf("unknown image slot %q", slot)
	}
	return pgx.Identifier{slot}.Sanitize(), nil
}

func slotColumns() string {
	cols := make([]string, len(models.ImageSlots))
	for i, s := range models.ImageSlots {
		cols[i] = pgx.Identifier{s}.Sanitize()
	}
	return strings.Join(cols, ", ")
}

func (r *productRepo) GetByCode(ctx context.Context, codpro string) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT codpro, produto, preco1 FROM produto WHERE codpro = $1`
	err := r.db.QueryRow(ctx, query, codpro).Scan(&product.CodPro, &product.Name, &product.Price)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) GetImageSlot(ctx context.Context, codpro, slot string) (*string, error) {
	col, err := slotColumn(slot)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM produto WHERE codpro = $1`, col)

	var fileName *string
	err = r.db.QueryRow(ctx, query, codpro).Scan(&fileName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fileName, nil
}

// SetImageSlot writes fileName (or NULL) into the slot column.
func (r *productRepo) SetImageSlot(ctx context.Context, codpro, slot string, fileName *string) error {
	col, err := slotColumn(slot)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE produto SET %s = $1 WHERE codpro = $2`, col)

	tag, err := r.db.Exec(ctx, query, fileName, codpro)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) GetImages(ctx context.Context, codpro string) (map[string]*string, error) {
	query := fmt.Sprintf(`SELECT %s FROM produto WHERE codpro = $1`, slotColumns())

	values := make([]*string, len(models.ImageSlots))
	dest := make([]interface{}, len(values))
	for i := range values {
		dest[i] = &values[i]
	}
	err := r.db.QueryRow(ctx, query, codpro).Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	images := make(map[string]*string, len(values))
	for i, s := range models.ImageSlots {
		images[s] = values[i]
	}
	return images, nil
}

// ListImageReferences returns every non-null slot of every product.
func (r *productRepo) ListImageReferences(ctx context.Context) ([]models.ImageReference, error) {
	conds := make([]string, len(models.ImageSlots))
	for i, s := range models.ImageSlots {
		conds[i] = pgx.Identifier{s}.Sanitize() + " IS NOT NULL"
	}
	query := fmt.Sprintf(`SELECT codpro, %s FROM produto WHERE %s ORDER BY codpro`, slotColumns(), strings.Join(conds, " OR "))

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []models.ImageReference
	for rows.Next() {
		var codpro string
		values := make([]*string, len(models.ImageSlots))
		dest := make([]interface{}, 0, len(values)+1)
		dest = append(dest, &codpro)
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		for i, s := range models.ImageSlots {
			if values[i] != nil && *values[i] != "" {
				refs = append(refs, models.ImageReference{CodPro: codpro, Slot: s, FileName: *values[i]})
			}
		}
	}
	return refs, rows.Err()
}
