// Package nfe contém catálogos e validações alinhados ao Manual de Orientação
// do Contribuinte da NF-e (leiaute 4.00).
package nfe

// =============================================================================
// Códigos IBGE das UF (campo cUF do grupo <ide> e posição 1-2 da chave de acesso)
// =============================================================================

const (
	UFSaoPaulo       = "35"
	UFRioDeJaneiro   = "33"
	UFMinasGerais    = "31"
	UFRioGrandeDoSul = "43"
	UFParana         = "41"
	UFSantaCatarina  = "42"
	UFBahia          = "29"
	UFPernambuco     = "26"
	UFCeara          = "23"
	UFDistritoFed    = "53"
)

// ValidUFCodes códigos IBGE de UF válidos para emissão.
var ValidUFCodes = map[string]bool{
	"11": true, "12": true, "13": true, "14": true, "15": true, "16": true, "17": true,
	"21": true, "22": true, "23": true, "24": true, "25": true, "26": true, "27": true,
	"28": true, "29": true, "31": true, "32": true, "33": true, "35": true, "41": true,
	"42": true, "43": true, "50": true, "51": true, "52": true, "53": true,
}

// =============================================================================
// Modelo do documento fiscal (campo mod e posições 21-22 da chave)
// =============================================================================

const (
	ModeloNFe  = "55" // Nota Fiscal Eletrônica
	ModeloNFCe = "65" // Nota Fiscal de Consumidor Eletrônica
)

// =============================================================================
// Tipo de emissão (campo tpEmis e posição 35 da chave)
// =============================================================================

const (
	EmissaoNormal       = "1" // Emissão normal
	EmissaoContingencia = "9" // Contingência off-line
)

// =============================================================================
// Ambiente (campo tpAmb do grupo <ide>)
// =============================================================================

const (
	AmbienteProducao    = "1"
	AmbienteHomologacao = "2"
)

// RazaoSocialHomologacao é o valor fixo exigido pela SEFAZ para o destinatário
// em ambiente de homologação.
const RazaoSocialHomologacao = "NF-E EMITIDA EM AMBIENTE DE HOMOLOGACAO - SEM VALOR FISCAL"

// =============================================================================
// Meios de pagamento (campo tPag do grupo <pag>) - códigos de uso frequente
// =============================================================================

const (
	PagamentoDinheiro      = "01"
	PagamentoCheque        = "02"
	PagamentoCartaoCredito = "03"
	PagamentoCartaoDebito  = "04"
	PagamentoPix           = "17"
	PagamentoSemPagamento  = "90"
)

// ValidPaymentCodes códigos de meio de pagamento aceitos no grupo <detPag>.
var ValidPaymentCodes = map[string]bool{
	PagamentoDinheiro: true, PagamentoCheque: true, PagamentoCartaoCredito: true,
	PagamentoCartaoDebito: true, "05": true, "10": true, "11": true, "12": true,
	"13": true, "15": true, PagamentoPix: true, "18": true, "19": true,
	PagamentoSemPagamento: true, "99": true,
}

// =============================================================================
// Modalidade do frete (campo modFrete do grupo <transp>)
// =============================================================================

const (
	FreteEmitente      = "0" // Contratação por conta do remetente (CIF)
	FreteDestinatario  = "1" // Contratação por conta do destinatário (FOB)
	FreteSemOcorrencia = "9" // Sem ocorrência de transporte
)

// =============================================================================
// Código de Regime Tributário (campo CRT do grupo <emit>)
// =============================================================================

const (
	CRTSimplesNacional = "1"
	CRTSimplesExcesso  = "2"
	CRTRegimeNormal    = "3"
)

// =============================================================================
// Códigos de status (cStat) da resposta de autorização da SEFAZ
// =============================================================================

const (
	CStatAutorizado     = "100" // Autorizado o uso da NF-e
	CStatLoteProcessado = "104" // Lote processado (envolve o protNFe)
	CStatDuplicidade    = "204" // Duplicidade de NF-e
)
