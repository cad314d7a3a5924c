package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/catalog"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ repository.SweetRepository = (*SweetRepo)(nil)

const (
	sweetColumns        = `id, name, category, price, quantity, description, image_url, created_at, updated_at`
	sweetNameConstraint = "sweets_name_lower_key"
)

// SweetRepo implementación del puerto SweetRepository sobre PostgreSQL (usable con pool o tx).
type SweetRepo struct {
	q Querier
}

// NewSweetRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSweetRepository(q Querier) *SweetRepo {
	return &SweetRepo{q: q}
}

// Create persiste un nuevo dulce.
func (r *SweetRepo) Create(ctx context.Context, s *entity.Sweet) error {
	query := `
		INSERT INTO sweets (` + sweetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.Category, s.Price, s.Quantity, s.Description, s.ImageURL, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, sweetNameConstraint) {
			return domain.ErrDuplicateSweet
		}
		return fmt.Errorf("insert sweet: %w", err)
	}
	return nil
}

// GetByID obtiene un dulce por ID.
func (r *SweetRepo) GetByID(ctx context.Context, id string) (*entity.Sweet, error) {
	s, err := scanSweet(r.q.QueryRow(ctx, `SELECT `+sweetColumns+` FROM sweets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sweet: %w", err)
	}
	return s, nil
}

// Update escribe en una sola sentencia solo las columnas presentes en changes.
func (r *SweetRepo) Update(ctx context.Context, id string, changes repository.SweetUpdate) (*entity.Sweet, error) {
	sets := make([]string, 0, 7)
	args := []any{id}
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if changes.Name != nil {
		set("name", *changes.Name)
	}
	if changes.Category != nil {
		set("category", *changes.Category)
	}
	if changes.Price != nil {
		set("price", *changes.Price)
	}
	if changes.Quantity != nil {
		set("quantity", *changes.Quantity)
	}
	if changes.Description != nil {
		set("description", *changes.Description)
	}
	if changes.ImageURL != nil {
		set("image_url", *changes.ImageURL)
	}
	sets = append(sets, "updated_at = now()")

	query := `UPDATE sweets SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + sweetColumns
	s, err := scanSweet(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSweetNotFound
		}
		if isUniqueViolation(err, sweetNameConstraint) {
			return nil, domain.ErrDuplicateSweet
		}
		return nil, fmt.Errorf("update sweet: %w", err)
	}
	return s, nil
}

// Delete elimina un dulce y devuelve la fila borrada.
func (r *SweetRepo) Delete(ctx context.Context, id string) (*entity.Sweet, error) {
	s, err := scanSweet(r.q.QueryRow(ctx, `DELETE FROM sweets WHERE id = $1 RETURNING `+sweetColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSweetNotFound
		}
		return nil, fmt.Errorf("delete sweet: %w", err)
	}
	return s, nil
}

// Search aplica el filtro en SQL; name y category son "contiene" sin distinguir mayúsculas.
func (r *SweetRepo) Search(ctx context.Context, f catalog.Filter) ([]*entity.Sweet, error) {
	query, args := buildSearch(f)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search sweets: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Sweet, 0)
	for rows.Next() {
		s, err := scanSweet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sweet: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func buildSearch(f catalog.Filter) (string, []any) {
	query := `SELECT ` + sweetColumns + ` FROM sweets WHERE 1=1`
	var args []any
	pos := 1
	if f.Name != nil {
		query += fmt.Sprintf(` AND name ILIKE $%d ESCAPE '\'`, pos)
		args = append(args, likeContains(*f.Name))
		pos++
	}
	if f.Category != nil {
		query += fmt.Sprintf(` AND category ILIKE $%d ESCAPE '\'`, pos)
		args = append(args, likeContains(*f.Category))
		pos++
	}
	if f.MinPrice != nil {
		query += fmt.Sprintf(" AND price >= $%d", pos)
		args = append(args, *f.MinPrice)
		pos++
	}
	if f.MaxPrice != nil {
		query += fmt.Sprintf(" AND price <= $%d", pos)
		args = append(args, *f.MaxPrice)
	}
	query += " ORDER BY created_at DESC, id DESC"
	return query, args
}

// DecrementStock descuenta con una escritura condicional: dos compras concurrentes nunca dejan
// el stock negativo. Si no se actualizó ninguna fila, distingue inexistente de stock insuficiente.
func (r *SweetRepo) DecrementStock(ctx context.Context, id string, quantity int) (*entity.Sweet, error) {
	query := `
		UPDATE sweets SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2
		RETURNING ` + sweetColumns
	s, err := scanSweet(r.q.QueryRow(ctx, query, id, quantity))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sweets WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check sweet: %w", err)
	}
	if !exists {
		return nil, domain.ErrSweetNotFound
	}
	return nil, domain.ErrInsufficientStock
}

// IncrementStock suma quantity al stock. Si la suma desborda la columna INTEGER devuelve
// ErrQuantityTooLarge y la fila queda intacta.
func (r *SweetRepo) IncrementStock(ctx context.Context, id string, quantity int) (*entity.Sweet, error) {
	query := `
		UPDATE sweets SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + sweetColumns
	s, err := scanSweet(r.q.QueryRow(ctx, query, id, quantity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSweetNotFound
		}
		if isOutOfRange(err) {
			return nil, domain.ErrQuantityTooLarge
		}
		return nil, fmt.Errorf("increment stock: %w", err)
	}
	return s, nil
}

func scanSweet(row pgx.Row) (*entity.Sweet, error) {
	var s entity.Sweet
	if err := row.Scan(
		&s.ID, &s.Name, &s.Category, &s.Price, &s.Quantity, &s.Description, &s.ImageURL, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
