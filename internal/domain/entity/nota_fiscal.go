package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados finais de uma tentativa de emissão.
const (
	StatusAutorizada = "autorizada" // SEFAZ autorizou o uso (cStat 100)
	StatusRejeitada  = "rejeitada"  // SEFAZ devolveu um cStat definitivo de rejeição
	StatusErro       = "erro"       // falha de transporte ou resposta ininteligível
)

// NotaFiscal é o registro persistido de uma emissão (tabela notas_fiscais).
// A unicidade da chave de acesso é garantida pelo constraint UNIQUE da tabela,
// não pelo núcleo do pipeline.
type NotaFiscal struct {
	ID           string
	Numero       string
	Serie        string
	Chave        string // chave de acesso de 44 dígitos (UNIQUE)
	XML          string // XML assinado enviado à SEFAZ
	Protocolo    string // nProt devolvido na autorização (vazio se rejeitada)
	Status       string // autorizada | rejeitada | erro
	CStat        string // código de status bruto da SEFAZ (100, 302, ...)
	Motivo       string // xMotivo da SEFAZ ou descrição da falha de gateway
	Ambiente     string // 1=produção, 2=homologação
	Destinatario string // razão social do destinatário
	Valor        decimal.Decimal
	CreatedAt    time.Time
}
