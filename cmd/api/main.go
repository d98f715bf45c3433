package main

import (
	"context"
	"crypto/tls"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/nfe-emissor/internal/application/emissao"
	domnfe "github.com/jhoicas/nfe-emissor/internal/domain/nfe"
	"github.com/jhoicas/nfe-emissor/internal/infrastructure/postgres"
	"github.com/jhoicas/nfe-emissor/internal/infrastructure/sefaz"
	"github.com/jhoicas/nfe-emissor/internal/infrastructure/sefaz/assinador"
	httpRouter "github.com/jhoicas/nfe-emissor/internal/interfaces/http"
	"github.com/jhoicas/nfe-emissor/pkg/config"
	"github.com/jhoicas/nfe-emissor/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("ambiente_sefaz", cfg.SEFAZ.Ambiente).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão com PostgreSQL")
	}
	defer pool.Close()

	notaRepo := postgres.NewNotaRepository(pool)

	// Cliente SOAP da SEFAZ. O certificado A1 do servidor, quando configurado,
	// também autentica o canal TLS (mTLS exigido pelos webservices).
	sefazClient := sefaz.NewSOAPSefazClient(cfg.SEFAZ.URLProducao, cfg.SEFAZ.URLHomologa)
	if cfg.SEFAZ.CertPFXB64 != "" || cfg.SEFAZ.CertPath != "" {
		cert, err := carregarCertificadoServidor(cfg.SEFAZ)
		if err != nil {
			log.Fatal().Err(err).Msg("certificado A1 configurado é inválido")
		}
		sefazClient = sefazClient.ComCertificado(cert)
	} else {
		log.Warn().Msg("nenhum certificado A1 configurado; cada emissão deve enviar o seu")
	}

	emissorUC := emissao.NewEmissorUseCase(
		notaRepo,
		domnfe.NewChaveCalculatorService(),
		sefaz.NewXMLBuilderService(),
		sefaz.NewXSDValidatorService(cfg.SEFAZ.SchemaPath),
		assinador.NewAssinaturaService(),
		sefazClient,
		*cfg,
		log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI em local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "NF-e Emissor API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		EmissorUC:  emissorUC,
		NotaRepo:   notaRepo,
		SchemaPath: cfg.SEFAZ.SchemaPath,
		JWTSecret:  cfg.JWT.Secret,
		Log:        log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("desligamento do servidor")
	}

	log.Info().Msg("aplicação encerrada")
}

func carregarCertificadoServidor(sc config.SEFAZConfig) (tls.Certificate, error) {
	if sc.CertPFXB64 != "" {
		return sefaz.CarregarCertificadoBase64(sc.CertPFXB64, sc.CertSenha)
	}
	return sefaz.CarregarCertificadoArquivo(sc.CertPath, sc.CertSenha)
}
