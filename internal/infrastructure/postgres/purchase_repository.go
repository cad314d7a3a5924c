package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// El LEFT JOIN conserva las compras de dulces ya eliminados (columnas s.* en NULL).
const purchaseSelect = `
	SELECT p.id, p.user_id, p.sweet_id, p.quantity, p.total_price, p.purchased_at,
	       s.id, s.name, s.category, s.price, s.quantity, s.description, s.image_url, s.created_at, s.updated_at
	FROM purchases p
	LEFT JOIN sweets s ON s.id = p.sweet_id`

// PurchaseRepo implementación del puerto PurchaseRepository sobre PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste una compra.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	query := `
		INSERT INTO purchases (id, user_id, sweet_id, quantity, total_price, purchased_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, p.ID, p.UserID, p.SweetID, p.Quantity, p.TotalPrice, p.PurchasedAt); err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// GetByID obtiene una compra con su dulce (nil si fue eliminado).
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseWithSweet, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx, purchaseSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

// ListByUser devuelve las compras del usuario, más recientes primero.
func (r *PurchaseRepo) ListByUser(ctx context.Context, userID string) ([]*entity.PurchaseWithSweet, error) {
	rows, err := r.q.Query(ctx, purchaseSelect+` WHERE p.user_id = $1 ORDER BY p.purchased_at DESC, p.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.PurchaseWithSweet, 0)
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanPurchase(row pgx.Row) (*entity.PurchaseWithSweet, error) {
	var (
		out       entity.PurchaseWithSweet
		sweetID   *string
		name      *string
		category  *string
		price     decimal.NullDecimal
		quantity  *int
		desc      *string
		imageURL  *string
		createdAt *time.Time
		updatedAt *time.Time
	)
	if err := row.Scan(
		&out.ID, &out.UserID, &out.SweetID, &out.Quantity, &out.TotalPrice, &out.PurchasedAt,
		&sweetID, &name, &category, &price, &quantity, &desc, &imageURL, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	if sweetID != nil {
		out.Sweet = &entity.Sweet{
			ID:          *sweetID,
			Name:        deref(name),
			Category:    deref(category),
			Price:       price.Decimal,
			Quantity:    derefInt(quantity),
			Description: deref(desc),
			ImageURL:    deref(imageURL),
		}
		if createdAt != nil {
			out.Sweet.CreatedAt = *createdAt
		}
		if updatedAt != nil {
			out.Sweet.UpdatedAt = *updatedAt
		}
	}
	return &out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
