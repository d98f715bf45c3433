package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Nota é o registro tipado de uma NF-e a emitir (leiaute 4.00).
// É construída uma vez por tentativa de emissão a partir do request mais o
// perfil do emitente configurado; nenhum componente a jusante a modifica.
type Nota struct {
	// Grupo <ide>
	NaturezaOperacao string    // natOp (ex: "VENDA")
	Modelo           string    // mod: 55 = NF-e
	Serie            string    // serie
	Numero           string    // nNF
	DataEmissao      time.Time // dhEmi
	TipoOperacao     string    // tpNF: 0=entrada, 1=saída
	IdDest           string    // 1=interna, 2=interestadual, 3=exterior
	CodMunicipioFG   string    // cMunFG: município de fato gerador
	TipoImpressao    string    // tpImp
	TipoEmissao      string    // tpEmis
	Ambiente         string    // tpAmb: 1=produção, 2=homologação
	Finalidade       string    // finNFe: 1=normal
	ConsumidorFinal  string    // indFinal
	IndPresenca      string    // indPres
	ProcessoEmissao  string    // procEmi: 0=aplicativo do contribuinte
	VersaoProcesso   string    // verProc

	Emitente     Emitente
	Destinatario Destinatario
	Itens        []Item
	Totais       Totais
	ModFrete     string // modalidade do frete (grupo <transp>)
	Pagamentos   []Pagamento
	InfAdicional string // infCpl (texto livre, opcional)
}

// Endereco endereço de emitente ou destinatário (grupos enderEmit/enderDest).
type Endereco struct {
	Logradouro   string
	Numero       string
	Bairro       string
	CodMunicipio string // código IBGE (7 dígitos)
	Municipio    string
	UF           string
	CEP          string
	CodPais      string // 1058 = Brasil
	Pais         string
}

// Emitente dados do emissor da nota (grupo <emit>).
type Emitente struct {
	CNPJ         string
	RazaoSocial  string
	NomeFantasia string
	Endereco     Endereco
	IE           string
	CRT          string
}

// Destinatario dados do destinatário (grupo <dest>). CPF ou CNPJ, nunca ambos.
type Destinatario struct {
	CPF         string
	CNPJ        string
	RazaoSocial string
	Endereco    Endereco
	IndIEDest   string // 1=contribuinte, 2=isento, 9=não contribuinte
	IE          string
}

// Item linha da nota (grupo <det>, um por posição nItem).
type Item struct {
	Codigo        string          // cProd
	EAN           string          // cEAN ("SEM GTIN" quando não houver)
	Descricao     string          // xProd
	NCM           string          // 8 dígitos
	CFOP          string          // 4 dígitos
	Unidade       string          // uCom
	Quantidade    decimal.Decimal // qCom
	ValorUnitario decimal.Decimal // vUnCom
	ValorTotal    decimal.Decimal // vProd

	// Imposto: ICMS00 (tributação integral) + PIS/COFINS não tributados,
	// o recorte usado pelo emissor.
	ICMSOrigem   string          // orig: 0=nacional
	ICMSCST      string          // CST: 00
	ICMSModBC    string          // modBC: 3=valor da operação
	ICMSBase     decimal.Decimal // vBC
	ICMSAliquota decimal.Decimal // pICMS (percentual)
	ICMSValor    decimal.Decimal // vICMS
}

// Totais totais da nota (grupo <total>/<ICMSTot>).
type Totais struct {
	BaseICMS   decimal.Decimal // vBC
	ValorICMS  decimal.Decimal // vICMS
	Produtos   decimal.Decimal // vProd
	Frete      decimal.Decimal // vFrete
	Seguro     decimal.Decimal // vSeg
	Desconto   decimal.Decimal // vDesc
	Outros     decimal.Decimal // vOutro
	ValorNota  decimal.Decimal // vNF
}

// Pagamento linha de pagamento (grupo <pag>/<detPag>).
type Pagamento struct {
	Meio  string          // tPag (01=dinheiro, 17=PIX, ...)
	Valor decimal.Decimal // vPag
}
