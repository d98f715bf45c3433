package repository

import (
	"context"

	"github.com/jhoicas/nfe-emissor/internal/domain/entity"
)

// NotaRepository porto de persistência do resultado de cada emissão.
// A implementação concreta vive em internal/infrastructure/postgres.
type NotaRepository interface {
	// Create persiste o registro da emissão. Chave duplicada retorna
	// domain.ErrDuplicate.
	Create(ctx context.Context, nota *entity.NotaFiscal) error

	// GetByID devolve a nota persistida ou domain.ErrNotFound.
	GetByID(ctx context.Context, id string) (*entity.NotaFiscal, error)

	// GetByChave devolve a nota pela chave de acesso ou domain.ErrNotFound.
	GetByChave(ctx context.Context, chave string) (*entity.NotaFiscal, error)

	// List devolve as notas mais recentes (ordem decrescente de created_at).
	List(ctx context.Context, limit, offset int) ([]*entity.NotaFiscal, error)
}
