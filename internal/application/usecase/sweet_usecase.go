package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/catalog"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/inventory"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

// SweetUseCase casos de uso CRUD y búsqueda del catálogo. El stock se mueve vía compras y
// reabastecimientos (paquete inventory); aquí solo se fija de forma absoluta por un administrador.
type SweetUseCase struct {
	repo repository.SweetRepository
	log  *logger.Logger
}

// NewSweetUseCase construye el caso de uso.
func NewSweetUseCase(repo repository.SweetRepository, log *logger.Logger) *SweetUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SweetUseCase{repo: repo, log: log.Component("catalog")}
}

// Create crea un nuevo dulce. Name, Category, Price y Quantity son obligatorios.
func (uc *SweetUseCase) Create(ctx context.Context, in dto.CreateSweetRequest) (*dto.SweetResponse, error) {
	name := strings.TrimSpace(in.Name)
	category := strings.TrimSpace(in.Category)
	if name == "" || category == "" || in.Price == nil || in.Quantity == nil {
		return nil, domain.Validation("VALIDATION", "name, category, price y quantity son requeridos")
	}
	if err := validatePrice(*in.Price); err != nil {
		return nil, err
	}
	if err := validateQuantity(*in.Quantity); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sweet := &entity.Sweet{
		ID:          uuid.New().String(),
		Name:        name,
		Category:    category,
		Price:       *in.Price,
		Quantity:    *in.Quantity,
		Description: strings.TrimSpace(in.Description),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, sweet); err != nil {
		return nil, err
	}
	uc.log.Info().Str("sweet_id", sweet.ID).Str("name", sweet.Name).Msg("dulce creado")
	return ToSweetResponse(sweet), nil
}

// GetByID obtiene un dulce por ID.
func (uc *SweetUseCase) GetByID(ctx context.Context, id string) (*dto.SweetResponse, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}
	sweet, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sweet == nil {
		return nil, domain.ErrSweetNotFound
	}
	return ToSweetResponse(sweet), nil
}

// List devuelve el catálogo completo, más recientes primero.
func (uc *SweetUseCase) List(ctx context.Context) ([]dto.SweetResponse, error) {
	return uc.search(ctx, catalog.Filter{})
}

// Search filtra el catálogo. Parámetros vacíos no restringen; precios no numéricos son error de validación.
func (uc *SweetUseCase) Search(ctx context.Context, q dto.SearchSweetsQuery) ([]dto.SweetResponse, error) {
	filter, err := ParseFilter(q)
	if err != nil {
		return nil, err
	}
	return uc.search(ctx, filter)
}

func (uc *SweetUseCase) search(ctx context.Context, filter catalog.Filter) ([]dto.SweetResponse, error) {
	list, err := uc.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SweetResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *ToSweetResponse(s))
	}
	return items, nil
}

// Update aplica una actualización parcial. Solo se validan y escriben los campos enviados.
func (uc *SweetUseCase) Update(ctx context.Context, id string, in dto.UpdateSweetRequest) (*dto.SweetResponse, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}
	changes := repository.SweetUpdate{
		Price:    in.Price,
		Quantity: in.Quantity,
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Validation("VALIDATION", "name no puede estar vacío")
		}
		changes.Name = &name
	}
	if in.Category != nil {
		category := strings.TrimSpace(*in.Category)
		if category == "" {
			return nil, domain.Validation("VALIDATION", "category no puede estar vacía")
		}
		changes.Category = &category
	}
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		changes.Description = &d
	}
	if in.ImageURL != nil {
		u := strings.TrimSpace(*in.ImageURL)
		changes.ImageURL = &u
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return nil, err
		}
	}
	if in.Quantity != nil {
		if err := validateQuantity(*in.Quantity); err != nil {
			return nil, err
		}
	}

	if changes.IsEmpty() {
		return uc.GetByID(ctx, id)
	}
	sweet, err := uc.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("sweet_id", sweet.ID).Msg("dulce actualizado")
	return ToSweetResponse(sweet), nil
}

// Delete elimina un dulce y lo devuelve. Las compras históricas no se borran.
func (uc *SweetUseCase) Delete(ctx context.Context, id string) (*dto.SweetResponse, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}
	sweet, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("sweet_id", sweet.ID).Msg("dulce eliminado")
	return ToSweetResponse(sweet), nil
}

// ParseFilter convierte la query string en un catalog.Filter explícito.
func ParseFilter(q dto.SearchSweetsQuery) (catalog.Filter, error) {
	var f catalog.Filter
	if name := strings.TrimSpace(q.Name); name != "" {
		f.Name = &name
	}
	if category := strings.TrimSpace(q.Category); category != "" {
		f.Category = &category
	}
	var err error
	if f.MinPrice, err = parsePrice("minPrice", q.MinPrice); err != nil {
		return catalog.Filter{}, err
	}
	if f.MaxPrice, err = parsePrice("maxPrice", q.MaxPrice); err != nil {
		return catalog.Filter{}, err
	}
	if err := f.Validate(); err != nil {
		return catalog.Filter{}, err
	}
	return f, nil
}

func parsePrice(field, raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, domain.Validation("INVALID_PRICE", "%s debe ser numérico", field)
	}
	return &d, nil
}

// maxPrice límite exclusivo de la columna NUMERIC(12, 2).
var maxPrice = decimal.New(1, 10)

func validatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return domain.Validation("INVALID_PRICE", "price no puede ser negativo")
	}
	if !p.Equal(p.Truncate(2)) {
		return domain.Validation("INVALID_PRICE", "price admite como máximo 2 decimales")
	}
	if p.GreaterThanOrEqual(maxPrice) {
		return domain.Validation("INVALID_PRICE", "price debe ser menor que %s", maxPrice.String())
	}
	return nil
}

func validateQuantity(q int) error {
	if q < 0 {
		return domain.Validation("INVALID_QUANTITY", "quantity no puede ser negativa")
	}
	if q > inventory.MaxStock {
		return domain.ErrQuantityTooLarge
	}
	return nil
}

// ToSweetResponse convierte la entidad a DTO.
func ToSweetResponse(s *entity.Sweet) *dto.SweetResponse {
	if s == nil {
		return nil
	}
	return &dto.SweetResponse{
		ID:          s.ID,
		Name:        s.Name,
		Category:    s.Category,
		Price:       s.Price,
		Quantity:    s.Quantity,
		Description: s.Description,
		ImageURL:    s.ImageURL,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
