package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/usecase"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/inventory"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
	"github.com/jhoicas/sweetshop-api/pkg/metrics"
)

// DefaultIdempotencyTTL vigencia de una clave Idempotency-Key si no se configura otra.
const DefaultIdempotencyTTL = 24 * time.Hour

// UseCase motor de inventario: compra (descuento atómico + registro de compra en la misma
// transacción), reabastecimiento, historial y comprobantes.
type UseCase struct {
	txRunner     TxRunner
	sweetRepo    repository.SweetRepository
	purchaseRepo repository.PurchaseRepository
	userRepo     repository.UserRepository
	log          *logger.Logger

	idem     IdempotencyStore
	idemTTL  time.Duration
	observer PurchaseObserver
	receipts ReceiptGenerator
	now      func() time.Time
}

// Option configura dependencias opcionales del caso de uso.
type Option func(*UseCase)

// WithIdempotency activa la deduplicación de compras por Idempotency-Key.
func WithIdempotency(store IdempotencyStore, ttl time.Duration) Option {
	return func(uc *UseCase) {
		uc.idem = store
		if ttl > 0 {
			uc.idemTTL = ttl
		}
	}
}

// WithObserver registra un observador de resultados de compra.
func WithObserver(o PurchaseObserver) Option {
	return func(uc *UseCase) { uc.observer = o }
}

// WithReceipts habilita la generación de comprobantes PDF.
func WithReceipts(g ReceiptGenerator) Option {
	return func(uc *UseCase) { uc.receipts = g }
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) { uc.now = now }
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	sweetRepo repository.SweetRepository,
	purchaseRepo repository.PurchaseRepository,
	userRepo repository.UserRepository,
	log *logger.Logger,
	opts ...Option,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	uc := &UseCase{
		txRunner:     txRunner,
		sweetRepo:    sweetRepo,
		purchaseRepo: purchaseRepo,
		userRepo:     userRepo,
		log:          log.Component("inventory"),
		idemTTL:      DefaultIdempotencyTTL,
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// PurchaseInput entrada de una compra.
type PurchaseInput struct {
	UserID         string
	SweetID        string
	Quantity       int
	IdempotencyKey string // opcional
}

// Purchase valida la cantidad, descuenta el stock con una escritura condicional
// (quantity >= solicitada) y registra la compra con TotalPrice = precio vigente * cantidad.
// Ambas escrituras van en la misma transacción: si falla una, no queda ninguna.
func (uc *UseCase) Purchase(ctx context.Context, in PurchaseInput) (*dto.PurchaseResult, error) {
	if in.Quantity <= 0 {
		uc.observe(metrics.PurchaseRejected, 0)
		return nil, domain.ErrInvalidQuantity
	}
	if in.Quantity > inventory.MaxStock {
		uc.observe(metrics.PurchaseRejected, 0)
		return nil, domain.ErrQuantityTooLarge
	}
	if in.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := domain.ValidateID(in.SweetID); err != nil {
		uc.observe(metrics.PurchaseRejected, 0)
		return nil, err
	}

	release, err := uc.reserve(ctx, in)
	if err != nil {
		return nil, err
	}

	var (
		purchase *entity.Purchase
		sweet    *entity.Sweet
	)
	err = uc.txRunner.Run(ctx, func(sweetRepo repository.SweetRepository, purchaseRepo repository.PurchaseRepository) error {
		updated, err := sweetRepo.DecrementStock(ctx, in.SweetID, in.Quantity)
		if err != nil {
			return err
		}
		p := &entity.Purchase{
			ID:          uuid.New().String(),
			UserID:      in.UserID,
			SweetID:     updated.ID,
			Quantity:    in.Quantity,
			TotalPrice:  inventory.TotalPrice(updated.Price, in.Quantity),
			PurchasedAt: uc.now(),
		}
		if err := purchaseRepo.Create(ctx, p); err != nil {
			return err
		}
		purchase, sweet = p, updated
		return nil
	})
	if err != nil {
		release()
		uc.observe(purchaseResult(err), 0)
		if domain.KindOf(err) == domain.KindInternal {
			uc.log.Error().Err(err).Str("sweet_id", in.SweetID).Msg("compra fallida")
		}
		return nil, err
	}

	uc.observe(metrics.PurchaseOK, purchase.Quantity)
	uc.log.Info().
		Str("purchase_id", purchase.ID).
		Str("user_id", purchase.UserID).
		Str("sweet_id", purchase.SweetID).
		Int("quantity", purchase.Quantity).
		Str("total", purchase.TotalPrice.String()).
		Int("stock", sweet.Quantity).
		Msg("compra registrada")

	return &dto.PurchaseResult{
		Purchase: ToPurchaseResponse(purchase),
		Sweet:    *usecase.ToSweetResponse(sweet),
	}, nil
}

// reserve aplica la Idempotency-Key si viene; devuelve la función que la libera si la compra falla.
func (uc *UseCase) reserve(ctx context.Context, in PurchaseInput) (func(), error) {
	if uc.idem == nil || in.IdempotencyKey == "" {
		return func() {}, nil
	}
	key := "purchase:" + in.UserID + ":" + in.IdempotencyKey
	ok, err := uc.idem.Reserve(ctx, key, uc.idemTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		uc.observe(metrics.PurchaseRejected, 0)
		return nil, domain.ErrDuplicateRequest
	}
	return func() {
		// Contexto propio: la liberación debe ocurrir aunque el request se haya cancelado.
		if err := uc.idem.Release(context.WithoutCancel(ctx), key); err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("no se pudo liberar la clave de idempotencia")
		}
	}, nil
}

// Restock suma quantity al stock del dulce. El stock resultante no puede superar inventory.MaxStock.
func (uc *UseCase) Restock(ctx context.Context, sweetID string, quantity int) (*dto.SweetResponse, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if quantity > inventory.MaxStock {
		return nil, domain.ErrQuantityTooLarge
	}
	if err := domain.ValidateID(sweetID); err != nil {
		return nil, err
	}
	sweet, err := uc.sweetRepo.IncrementStock(ctx, sweetID, quantity)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("sweet_id", sweet.ID).Int("added", quantity).Int("stock", sweet.Quantity).Msg("dulce reabastecido")
	return usecase.ToSweetResponse(sweet), nil
}

// History devuelve las compras del usuario, más recientes primero, con el dulce poblado.
func (uc *UseCase) History(ctx context.Context, userID string) ([]dto.PurchaseHistoryItem, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	list, err := uc.purchaseRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseHistoryItem, 0, len(list))
	for _, p := range list {
		items = append(items, dto.PurchaseHistoryItem{
			PurchaseResponse: ToPurchaseResponse(&p.Purchase),
			Sweet:            usecase.ToSweetResponse(p.Sweet),
		})
	}
	return items, nil
}

// Receipt genera el comprobante PDF de una compra del usuario. Una compra ajena se reporta
// como no encontrada.
func (uc *UseCase) Receipt(ctx context.Context, userID, purchaseID string) ([]byte, error) {
	if uc.receipts == nil {
		return nil, errors.New("inventory: generador de comprobantes no configurado")
	}
	if err := domain.ValidateID(purchaseID); err != nil {
		return nil, err
	}
	p, err := uc.purchaseRepo.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.UserID != userID {
		return nil, domain.ErrPurchaseNotFound
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrPurchaseNotFound
	}
	return uc.receipts.GenerateReceiptPDF(ctx, ReceiptData{Purchase: p.Purchase, Sweet: p.Sweet, User: user})
}

func (uc *UseCase) observe(result string, units int) {
	if uc.observer != nil {
		uc.observer.ObservePurchase(result, units)
	}
}

func purchaseResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return metrics.PurchaseInsufficient
	case errors.Is(err, domain.ErrNotFound):
		return metrics.PurchaseNotFound
	case domain.KindOf(err) == domain.KindInternal:
		return metrics.PurchaseError
	default:
		return metrics.PurchaseRejected
	}
}

// ToPurchaseResponse convierte la entidad a DTO.
func ToPurchaseResponse(p *entity.Purchase) dto.PurchaseResponse {
	return dto.PurchaseResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		SweetID:     p.SweetID,
		Quantity:    p.Quantity,
		TotalPrice:  p.TotalPrice,
		PurchasedAt: p.PurchasedAt,
	}
}
