package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercial-api/internal/application/catalog"
	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// ClientHandler maneja las peticiones HTTP del fichero de clientes (protegido).
type ClientHandler struct {
	uc *catalog.ClientUseCase
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *catalog.ClientUseCase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// Create da de alta un cliente.
// POST /api/clients
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	client, err := h.uc.Create(c.Context(), GetUserID(c), GetUsername(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toClientResponse(client))
}

// List devuelve clientes paginados.
// GET /api/clients
func (h *ClientHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	clients, err := h.uc.List(c.Context(), c.QueryBool("active", true), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ClientResponse, 0, len(clients))
	for _, cl := range clients {
		out = append(out, toClientResponse(cl))
	}
	return c.JSON(out)
}

// GetByID devuelve un cliente.
// GET /api/clients/:id
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	client, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toClientResponse(client))
}

// Update modifica un cliente.
// PUT /api/clients/:id
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	client, err := h.uc.Update(c.Context(), GetUserID(c), GetUsername(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toClientResponse(client))
}

// Archive da de baja lógica a un cliente.
// DELETE /api/clients/:id
func (h *ClientHandler) Archive(c *fiber.Ctx) error {
	if err := h.uc.Archive(c.Context(), GetUserID(c), GetUsername(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toClientResponse(client *entity.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:           client.ID,
		Code:         client.Code,
		Name:         client.Name,
		Address:      client.Address,
		RC:           client.RC,
		NIS:          client.NIS,
		NIF:          client.NIF,
		TaxArticle:   client.TaxArticle,
		CreditLimit:  client.CreditLimit,
		CarryForward: client.CarryForward,
		Active:       client.Active,
	}
}
