package http

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nfe-emissor/internal/application/dto"
	"github.com/jhoicas/nfe-emissor/internal/domain"
	"github.com/jhoicas/nfe-emissor/internal/infrastructure/sefaz"
	"github.com/jhoicas/nfe-emissor/pkg/logger"
)

// ValidadorHandler expõe a validação estrutural de XML como serviço avulso.
type ValidadorHandler struct {
	schemasDir   string
	schemaPadrao string
	log          *logger.Logger
}

func NewValidadorHandler(schemaPath string, log *logger.Logger) *ValidadorHandler {
	return &ValidadorHandler{
		schemasDir:   filepath.Dir(schemaPath),
		schemaPadrao: filepath.Base(schemaPath),
		log:          log,
	}
}

// Validar godoc
// @Summary      Valida um XML de NF-e contra o schema oficial
// @Description  Aceita o XML bruto no corpo ou um JSON {"xml": "...", "schema": "..."}
// @Tags         validacao
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.ValidarXMLResponse
// @Failure      400  {object}  dto.ValidarXMLResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/validar-xml [post]
func (h *ValidadorHandler) Validar(c *fiber.Ctx) error {
	xmlBytes := c.Body()
	schema := h.schemaPadrao

	if strings.Contains(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		var req dto.ValidarXMLRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "JSON inválido"})
		}
		xmlBytes = []byte(req.XML)
		if req.Schema != "" {
			// filepath.Base impede escapar do diretório de schemas.
			schema = filepath.Base(req.Schema)
		}
	}

	validador := sefaz.NewXSDValidatorService(filepath.Join(h.schemasDir, schema))
	resultado, err := validador.Validar(xmlBytes)
	if err != nil {
		if errors.Is(err, domain.ErrSchemaNotFound) {
			h.log.Error().Err(err).Str("schema", schema).Msg("schema indisponível")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "SCHEMA_UNAVAILABLE", Message: "schema de validação indisponível"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL_ERROR", Message: "falha ao validar o documento"})
	}

	if !resultado.Valid {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ValidarXMLResponse{
			Valid:       false,
			Message:     "XML inválido",
			Diagnostics: resultado.Diagnostics,
		})
	}
	return c.JSON(dto.ValidarXMLResponse{Valid: true, Message: "XML válido"})
}
