package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/nfe-emissor/internal/domain"
	"github.com/jhoicas/nfe-emissor/internal/domain/entity"
	"github.com/jhoicas/nfe-emissor/internal/domain/repository"
)

var _ repository.NotaRepository = (*NotaRepo)(nil)

// NotaRepo implementação de NotaRepository (usável com pool ou tx).
type NotaRepo struct {
	q Querier
}

// NewNotaRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewNotaRepository(q Querier) *NotaRepo {
	return &NotaRepo{q: q}
}

const colunasNota = `id, numero, serie, chave, xml, protocolo, status, c_stat, motivo, ambiente, destinatario, valor, created_at`

// Create persiste o registro da emissão. A chave de acesso tem constraint
// UNIQUE: a segunda emissão com os mesmos parâmetros falha aqui, não no
// pipeline.
func (r *NotaRepo) Create(ctx context.Context, nota *entity.NotaFiscal) error {
	if nota.ID == "" {
		nota.ID = uuid.New().String()
	}
	if nota.CreatedAt.IsZero() {
		nota.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO notas_fiscais (` + colunasNota + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		nota.ID, nota.Numero, nota.Serie, nota.Chave, nota.XML,
		nota.Protocolo, nota.Status, nota.CStat, nota.Motivo, nota.Ambiente,
		nota.Destinatario, nota.Valor, nota.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: chave %s já emitida", domain.ErrDuplicate, nota.Chave)
		}
		return fmt.Errorf("insert nota fiscal: %w", err)
	}
	return nil
}

// GetByID devolve a nota persistida ou domain.ErrNotFound.
func (r *NotaRepo) GetByID(ctx context.Context, id string) (*entity.NotaFiscal, error) {
	query := `SELECT ` + colunasNota + ` FROM notas_fiscais WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetByChave devolve a nota pela chave de acesso ou domain.ErrNotFound.
func (r *NotaRepo) GetByChave(ctx context.Context, chave string) (*entity.NotaFiscal, error) {
	query := `SELECT ` + colunasNota + ` FROM notas_fiscais WHERE chave = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, chave))
}

// List devolve as notas mais recentes primeiro.
func (r *NotaRepo) List(ctx context.Context, limit, offset int) ([]*entity.NotaFiscal, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + colunasNota + ` FROM notas_fiscais ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notas fiscais: %w", err)
	}
	defer rows.Close()

	var list []*entity.NotaFiscal
	for rows.Next() {
		var n entity.NotaFiscal
		if err := rows.Scan(
			&n.ID, &n.Numero, &n.Serie, &n.Chave, &n.XML,
			&n.Protocolo, &n.Status, &n.CStat, &n.Motivo, &n.Ambiente,
			&n.Destinatario, &n.Valor, &n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan nota fiscal: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

func (r *NotaRepo) scanOne(row pgx.Row) (*entity.NotaFiscal, error) {
	var n entity.NotaFiscal
	err := row.Scan(
		&n.ID, &n.Numero, &n.Serie, &n.Chave, &n.XML,
		&n.Protocolo, &n.Status, &n.CStat, &n.Motivo, &n.Ambiente,
		&n.Destinatario, &n.Valor, &n.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get nota fiscal: %w", err)
	}
	return &n, nil
}
