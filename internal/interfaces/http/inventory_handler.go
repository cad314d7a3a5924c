package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

// HeaderIdempotencyKey header opcional para deduplicar compras reintentadas.
const HeaderIdempotencyKey = "Idempotency-Key"

// InventoryHandler maneja compras, reabastecimiento, historial y comprobantes.
type InventoryHandler struct {
	uc  *inventory.UseCase
	log *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{uc: uc, log: log}
}

// Purchase godoc
// @Summary      Comprar dulce
// @Description  Descuenta el stock de forma atómica y registra la compra con el precio vigente.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id               path    string               true   "ID del dulce"
// @Param        Idempotency-Key  header  string               false  "Clave para deduplicar reintentos"
// @Param        body             body    dto.QuantityRequest  true   "quantity >= 1"
// @Success      200  {object}  dto.PurchaseResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sweets/{id}/purchase [post]
func (h *InventoryHandler) Purchase(c *fiber.Ctx) error {
	var in dto.QuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Purchase(c.UserContext(), inventory.PurchaseInput{
		UserID:         GetUserID(c),
		SweetID:        c.Params("id"),
		Quantity:       in.Quantity,
		IdempotencyKey: c.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Restock godoc
// @Summary      Reabastecer dulce
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del dulce"
// @Param        body  body  dto.QuantityRequest  true  "quantity >= 1"
// @Success      200  {object}  dto.SweetResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sweets/{id}/restock [post]
func (h *InventoryHandler) Restock(c *fiber.Ctx) error {
	var in dto.QuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Restock(c.UserContext(), c.Params("id"), in.Quantity)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de compras del usuario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.PurchaseHistoryItem
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/sweets/purchases [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante PDF de una compra
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sweets/purchases/{id}/receipt [get]
func (h *InventoryHandler) Receipt(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.uc.Receipt(c.UserContext(), GetUserID(c), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="comprobante-`+id+`.pdf"`)
	return c.Send(pdf)
}
