package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/nfe-emissor/internal/domain/entity"
	"github.com/jhoicas/nfe-emissor/internal/infrastructure/sefaz"
)

// EmitirNotaRequest corpo de POST /api/notas. O certificado do request, se
// presente, prevalece sobre o configurado no servidor.
type EmitirNotaRequest struct {
	NotaFiscal  NotaFiscalInput `json:"notaFiscal"`
	Certificado *CertificadoDTO `json:"certificado,omitempty"`
	Ambiente    string          `json:"ambiente,omitempty"` // 1=produção, 2=homologação; vazio usa a config
}

// CertificadoDTO certificado A1 transportado no request.
type CertificadoDTO struct {
	PfxBase64 string `json:"pfxBase64"`
	Senha     string `json:"senha"`
}

// NotaFiscalInput dados variáveis da nota; o emitente vem da configuração.
type NotaFiscalInput struct {
	NaturezaOperacao string          `json:"naturezaOperacao"`
	Serie            string          `json:"serie,omitempty"` // vazio usa a série configurada
	Numero           string          `json:"numero"`
	DataEmissao      time.Time       `json:"dataEmissao,omitempty"` // zero = agora
	Destinatario     DestinatarioDTO `json:"destinatario"`
	Itens            []ItemDTO       `json:"itens"`
	Pagamentos       []PagamentoDTO  `json:"pagamentos"`
	ModFrete         string          `json:"modFrete,omitempty"` // padrão 9 = sem ocorrência
	Frete            decimal.Decimal `json:"frete,omitempty"`
	Seguro           decimal.Decimal `json:"seguro,omitempty"`
	Desconto         decimal.Decimal `json:"desconto,omitempty"`
	InfAdicional     string          `json:"infAdicional,omitempty"`
}

// DestinatarioDTO destinatário da nota. CPF ou CNPJ, nunca ambos.
type DestinatarioDTO struct {
	CPF         string      `json:"cpf,omitempty"`
	CNPJ        string      `json:"cnpj,omitempty"`
	RazaoSocial string      `json:"razaoSocial"`
	IndIEDest   string      `json:"indIEDest,omitempty"` // padrão 9 = não contribuinte
	IE          string      `json:"ie,omitempty"`
	Endereco    EnderecoDTO `json:"endereco"`
}

// EnderecoDTO endereço postal.
type EnderecoDTO struct {
	Logradouro   string `json:"logradouro"`
	Numero       string `json:"numero"`
	Bairro       string `json:"bairro"`
	CodMunicipio string `json:"codMunicipio"` // código IBGE, 7 dígitos
	Municipio    string `json:"municipio"`
	UF           string `json:"uf"`
	CEP          string `json:"cep"`
}

// ItemDTO linha da nota.
type ItemDTO struct {
	Codigo        string          `json:"codigo"`
	EAN           string          `json:"ean,omitempty"`
	Descricao     string          `json:"descricao"`
	NCM           string          `json:"ncm"`
	CFOP          string          `json:"cfop"`
	Unidade       string          `json:"unidade"`
	Quantidade    decimal.Decimal `json:"quantidade"`
	ValorUnitario decimal.Decimal `json:"valorUnitario"`
	ICMSAliquota  decimal.Decimal `json:"icmsAliquota,omitempty"`
}

// PagamentoDTO linha de pagamento.
type PagamentoDTO struct {
	Meio  string          `json:"meio"` // tPag: 01=dinheiro, 03=cartão, 17=PIX...
	Valor decimal.Decimal `json:"valor"`
}

// EmitirNotaResponse resultado da emissão (estado final da tentativa).
type EmitirNotaResponse struct {
	ID        string `json:"id"`
	Chave     string `json:"chave"`
	Status    string `json:"status"` // autorizada | rejeitada | erro
	CStat     string `json:"cStat,omitempty"`
	Mensagem  string `json:"mensagem"`
	Protocolo string `json:"protocolo,omitempty"`
	XML       string `json:"xml,omitempty"` // XML assinado, só quando autorizada
}

// NotaFiscalResponse visão de um registro persistido.
type NotaFiscalResponse struct {
	ID           string          `json:"id"`
	Numero       string          `json:"numero"`
	Serie        string          `json:"serie"`
	Chave        string          `json:"chave"`
	Status       string          `json:"status"`
	CStat        string          `json:"cStat,omitempty"`
	Motivo       string          `json:"motivo,omitempty"`
	Protocolo    string          `json:"protocolo,omitempty"`
	Ambiente     string          `json:"ambiente"`
	Destinatario string          `json:"destinatario"`
	Valor        decimal.Decimal `json:"valor"`
	CreatedAt    time.Time       `json:"createdAt"`
	XML          string          `json:"xml,omitempty"` // presente só na consulta por ID
}

// FromNotaFiscal converte a entidade persistida para a resposta.
func FromNotaFiscal(n *entity.NotaFiscal, incluirXML bool) NotaFiscalResponse {
	resp := NotaFiscalResponse{
		ID:           n.ID,
		Numero:       n.Numero,
		Serie:        n.Serie,
		Chave:        n.Chave,
		Status:       n.Status,
		CStat:        n.CStat,
		Motivo:       n.Motivo,
		Protocolo:    n.Protocolo,
		Ambiente:     n.Ambiente,
		Destinatario: n.Destinatario,
		Valor:        n.Valor,
		CreatedAt:    n.CreatedAt,
	}
	if incluirXML {
		resp.XML = n.XML
	}
	return resp
}

// ValidarXMLRequest envelope JSON de POST /api/validar-xml. Schema opcional
// escolhe outro arquivo XSD dentro do diretório de schemas configurado.
type ValidarXMLRequest struct {
	XML    string `json:"xml"`
	Schema string `json:"schema,omitempty"`
}

// ValidarXMLResponse resultado da validação estrutural.
type ValidarXMLResponse struct {
	Valid       bool               `json:"valid"`
	Message     string             `json:"message,omitempty"`
	Diagnostics []sefaz.Diagnostic `json:"errors,omitempty"`
}
