package sefaz

import "encoding/xml"

// Estruturas de parse do XML da NF-e (leiaute 4.00). Usadas pelo round-trip de
// testes e pela extração de dados de documentos recebidos; a geração usa o
// encoder de tokens do xml_builder, não estas structs.

// NFeDocument documento NFe completo (raiz <NFe>).
type NFeDocument struct {
	XMLName xml.Name `xml:"NFe"`
	InfNFe  InfNFe   `xml:"infNFe"`
}

// InfNFe grupo <infNFe> com o Id da assinatura e a versão do leiaute.
type InfNFe struct {
	ID      string   `xml:"Id,attr"`
	Versao  string   `xml:"versao,attr"`
	Ide     Ide      `xml:"ide"`
	Emit    Emit     `xml:"emit"`
	Dest    Dest     `xml:"dest"`
	Det     []Det    `xml:"det"`
	Total   Total    `xml:"total"`
	Transp  Transp   `xml:"transp"`
	Pag     Pag      `xml:"pag"`
	InfAdic *InfAdic `xml:"infAdic"`
}

// Ide identificação da nota.
type Ide struct {
	CUF      string `xml:"cUF"`
	CNF      string `xml:"cNF"`
	NatOp    string `xml:"natOp"`
	Mod      string `xml:"mod"`
	Serie    string `xml:"serie"`
	NNF      string `xml:"nNF"`
	DhEmi    string `xml:"dhEmi"`
	TpNF     string `xml:"tpNF"`
	IdDest   string `xml:"idDest"`
	CMunFG   string `xml:"cMunFG"`
	TpImp    string `xml:"tpImp"`
	TpEmis   string `xml:"tpEmis"`
	CDV      string `xml:"cDV"`
	TpAmb    string `xml:"tpAmb"`
	FinNFe   string `xml:"finNFe"`
	IndFinal string `xml:"indFinal"`
	IndPres  string `xml:"indPres"`
	ProcEmi  string `xml:"procEmi"`
	VerProc  string `xml:"verProc"`
}

// Emit emitente.
type Emit struct {
	CNPJ      string   `xml:"CNPJ"`
	XNome     string   `xml:"xNome"`
	XFant     string   `xml:"xFant"`
	EnderEmit Endereco `xml:"enderEmit"`
	IE        string   `xml:"IE"`
	CRT       string   `xml:"CRT"`
}

// Dest destinatário.
type Dest struct {
	CPF       string   `xml:"CPF"`
	CNPJ      string   `xml:"CNPJ"`
	XNome     string   `xml:"xNome"`
	EnderDest Endereco `xml:"enderDest"`
	IndIEDest string   `xml:"indIEDest"`
	IE        string   `xml:"IE"`
}

// Endereco enderEmit/enderDest.
type Endereco struct {
	XLgr    string `xml:"xLgr"`
	Nro     string `xml:"nro"`
	XBairro string `xml:"xBairro"`
	CMun    string `xml:"cMun"`
	XMun    string `xml:"xMun"`
	UF      string `xml:"UF"`
	CEP     string `xml:"CEP"`
	CPais   string `xml:"cPais"`
	XPais   string `xml:"xPais"`
}

// Det linha da nota com a posição explícita nItem.
type Det struct {
	NItem   string  `xml:"nItem,attr"`
	Prod    Prod    `xml:"prod"`
	Imposto Imposto `xml:"imposto"`
}

// Prod dados do produto.
type Prod struct {
	CProd    string `xml:"cProd"`
	CEAN     string `xml:"cEAN"`
	XProd    string `xml:"xProd"`
	NCM      string `xml:"NCM"`
	CFOP     string `xml:"CFOP"`
	UCom     string `xml:"uCom"`
	QCom     string `xml:"qCom"`
	VUnCom   string `xml:"vUnCom"`
	VProd    string `xml:"vProd"`
	CEANTrib string `xml:"cEANTrib"`
	UTrib    string `xml:"uTrib"`
	QTrib    string `xml:"qTrib"`
	VUnTrib  string `xml:"vUnTrib"`
	IndTot   string `xml:"indTot"`
}

// Imposto grupo de tributos do item (recorte ICMS00 / PISNT / COFINSNT).
type Imposto struct {
	ICMS   ICMS   `xml:"ICMS"`
	PIS    PIS    `xml:"PIS"`
	COFINS COFINS `xml:"COFINS"`
}

type ICMS struct {
	ICMS00 ICMS00 `xml:"ICMS00"`
}

type ICMS00 struct {
	Orig  string `xml:"orig"`
	CST   string `xml:"CST"`
	ModBC string `xml:"modBC"`
	VBC   string `xml:"vBC"`
	PICMS string `xml:"pICMS"`
	VICMS string `xml:"vICMS"`
}

type PIS struct {
	PISNT PISNT `xml:"PISNT"`
}

type PISNT struct {
	CST string `xml:"CST"`
}

type COFINS struct {
	COFINSNT COFINSNT `xml:"COFINSNT"`
}

type COFINSNT struct {
	CST string `xml:"CST"`
}

// Total totais da nota.
type Total struct {
	ICMSTot ICMSTot `xml:"ICMSTot"`
}

// ICMSTot grupo <ICMSTot> completo.
type ICMSTot struct {
	VBC        string `xml:"vBC"`
	VICMS      string `xml:"vICMS"`
	VICMSDeson string `xml:"vICMSDeson"`
	VBCST      string `xml:"vBCST"`
	VST        string `xml:"vST"`
	VProd      string `xml:"vProd"`
	VFrete     string `xml:"vFrete"`
	VSeg       string `xml:"vSeg"`
	VDesc      string `xml:"vDesc"`
	VII        string `xml:"vII"`
	VIPI       string `xml:"vIPI"`
	VPIS       string `xml:"vPIS"`
	VCOFINS    string `xml:"vCOFINS"`
	VOutro     string `xml:"vOutro"`
	VNF        string `xml:"vNF"`
}

// Transp transporte.
type Transp struct {
	ModFrete string `xml:"modFrete"`
}

// Pag pagamentos.
type Pag struct {
	DetPag []DetPag `xml:"detPag"`
}

type DetPag struct {
	TPag string `xml:"tPag"`
	VPag string `xml:"vPag"`
}

// InfAdic informações adicionais.
type InfAdic struct {
	InfCpl string `xml:"infCpl"`
}
