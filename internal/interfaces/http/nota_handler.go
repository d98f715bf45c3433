package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nfe-emissor/internal/application/dto"
	"github.com/jhoicas/nfe-emissor/internal/application/emissao"
	"github.com/jhoicas/nfe-emissor/internal/domain"
	"github.com/jhoicas/nfe-emissor/internal/domain/entity"
	"github.com/jhoicas/nfe-emissor/internal/domain/repository"
	"github.com/jhoicas/nfe-emissor/pkg/logger"
)

// NotaHandler endpoints de emissão e consulta de NF-e.
type NotaHandler struct {
	emissor *emissao.EmissorUseCase
	repo    repository.NotaRepository
	log     *logger.Logger
}

func NewNotaHandler(emissor *emissao.EmissorUseCase, repo repository.NotaRepository, log *logger.Logger) *NotaHandler {
	return &NotaHandler{emissor: emissor, repo: repo, log: log}
}

// Emitir godoc
// @Summary      Emite uma NF-e
// @Description  Monta, valida, assina e envia a nota para autorização na SEFAZ
// @Tags         notas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        nota  body      dto.EmitirNotaRequest  true  "Dados da nota"
// @Success      200   {object}  dto.EmitirNotaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.EmitirNotaResponse
// @Router       /api/notas [post]
func (h *NotaHandler) Emitir(c *fiber.Ctx) error {
	var req dto.EmitirNotaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "JSON inválido"})
	}

	resp, err := h.emissor.EmitirNota(c.UserContext(), &req)
	if err != nil {
		return h.mapError(c, err)
	}
	// Falha de gateway: a tentativa foi persistida, mas o desfecho na SEFAZ
	// é indeterminado. O chamador recebe 502 com o estado registrado.
	if resp.Status == entity.StatusErro {
		return c.Status(fiber.StatusBadGateway).JSON(resp)
	}
	return c.JSON(resp)
}

// GetByID godoc
// @Summary      Consulta uma nota pelo ID
// @Tags         notas
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID da nota"
// @Success      200  {object}  dto.NotaFiscalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notas/{id} [get]
func (h *NotaHandler) GetByID(c *fiber.Ctx) error {
	nota, err := h.repo.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.FromNotaFiscal(nota, true))
}

// GetByChave godoc
// @Summary      Consulta uma nota pela chave de acesso
// @Tags         notas
// @Produce      json
// @Security     BearerAuth
// @Param        chave  path      string  true  "Chave de acesso (44 dígitos)"
// @Success      200    {object}  dto.NotaFiscalResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/notas/chave/{chave} [get]
func (h *NotaHandler) GetByChave(c *fiber.Ctx) error {
	nota, err := h.repo.GetByChave(c.UserContext(), c.Params("chave"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.FromNotaFiscal(nota, true))
}

// List godoc
// @Summary      Lista as notas emitidas
// @Tags         notas
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Máximo de registros (1-100)"
// @Param        offset  query     int  false  "Deslocamento"
// @Success      200     {array}   dto.NotaFiscalResponse
// @Router       /api/notas [get]
func (h *NotaHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parâmetros de paginação inválidos"})
	}
	page.DefaultPage()

	notas, err := h.repo.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return h.mapError(c, err)
	}
	resp := make([]dto.NotaFiscalResponse, 0, len(notas))
	for _, n := range notas {
		resp = append(resp, dto.FromNotaFiscal(n, false))
	}
	return c.JSON(resp)
}

// mapError traduz erros de domínio para status HTTP.
func (h *NotaHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrIncompleteRecord):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
	case errors.Is(err, domain.ErrMalformedDocument),
		errors.Is(err, domain.ErrSchemaViolation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DOCUMENT", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidCertificate):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_CERTIFICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrSignableElementNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DOCUMENT", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "nota não encontrada"})
	case errors.Is(err, domain.ErrSchemaNotFound):
		h.log.Error().Err(err).Msg("schema de validação indisponível")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "SCHEMA_UNAVAILABLE", Message: "schema de validação indisponível"})
	default:
		h.log.Error().Err(err).Msg("erro interno na emissão")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL_ERROR", Message: "erro interno"})
	}
}
