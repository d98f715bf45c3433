package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nfe-emissor/internal/application/emissao"
	"github.com/jhoicas/nfe-emissor/internal/domain/repository"
	"github.com/jhoicas/nfe-emissor/pkg/logger"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	EmissorUC  *emissao.EmissorUseCase
	NotaRepo   repository.NotaRepository
	SchemaPath string
	JWTSecret  string
	Log        *logger.Logger
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Validação estrutural (público): não emite nem persiste nada.
	validadorHandler := NewValidadorHandler(deps.SchemaPath, deps.Log)
	api.Post("/validar-xml", validadorHandler.Validar)

	// Rotas protegidas (exigem Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	notas := protected.Group("/notas")
	notaHandler := NewNotaHandler(deps.EmissorUC, deps.NotaRepo, deps.Log)
	notas.Post("/", notaHandler.Emitir)
	notas.Get("/", notaHandler.List)
	notas.Get("/chave/:chave", notaHandler.GetByChave)
	notas.Get("/:id", notaHandler.GetByID)
}
