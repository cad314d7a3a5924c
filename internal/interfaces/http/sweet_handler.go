package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/usecase"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

// SweetHandler maneja el catálogo de dulces (protegido).
type SweetHandler struct {
	uc  *usecase.SweetUseCase
	log *logger.Logger
}

// NewSweetHandler construye el handler.
func NewSweetHandler(uc *usecase.SweetUseCase, log *logger.Logger) *SweetHandler {
	return &SweetHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar dulces
// @Tags         sweets
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.SweetResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/sweets [get]
func (h *SweetHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar dulces
// @Description  Filtros opcionales combinados con AND; name y category buscan por subcadena sin distinguir mayúsculas.
// @Tags         sweets
// @Security     Bearer
// @Produce      json
// @Param        name      query  string  false  "Subcadena del nombre"
// @Param        category  query  string  false  "Subcadena de la categoría"
// @Param        minPrice  query  number  false  "Precio mínimo (inclusive)"
// @Param        maxPrice  query  number  false  "Precio máximo (inclusive)"
// @Success      200  {array}   dto.SweetResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sweets/search [get]
func (h *SweetHandler) Search(c *fiber.Ctx) error {
	var q dto.SearchSweetsQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de búsqueda inválidos"})
	}
	out, err := h.uc.Search(c.UserContext(), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener dulce por ID
// @Tags         sweets
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del dulce"
// @Success      200  {object}  dto.SweetResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sweets/{id} [get]
func (h *SweetHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear dulce
// @Tags         sweets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSweetRequest  true  "Datos del dulce"
// @Success      201   {object}  dto.SweetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sweets [post]
func (h *SweetHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSweetRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar dulce
// @Description  Actualización parcial: solo se modifican los campos enviados.
// @Tags         sweets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del dulce"
// @Param        body  body  dto.UpdateSweetRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.SweetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sweets/{id} [put]
func (h *SweetHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSweetRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar dulce
// @Tags         sweets
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del dulce"
// @Success      200  {object}  dto.DeleteSweetResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sweets/{id} [delete]
func (h *SweetHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.DeleteSweetResponse{Message: "dulce eliminado", Sweet: *out})
}
