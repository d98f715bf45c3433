// Package sefaz implementa a geração do XML da NF-e (leiaute 4.00), a
// validação estrutural perante o XSD e a entrega ao web service de autorização.
package sefaz

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/nfe-emissor/internal/domain"
	"github.com/jhoicas/nfe-emissor/internal/domain/entity"
	pkgnfe "github.com/jhoicas/nfe-emissor/pkg/nfe"
)

// Namespaces e constantes do leiaute NF-e 4.00.
const (
	// Namespace do Portal Fiscal (raiz <NFe> e todo o documento)
	NsNFe = "http://www.portalfiscal.inf.br/nfe"
	// XML Digital Signature
	NsDs = "http://www.w3.org/2000/09/xmldsig#"
	// Versão do leiaute
	VersaoLeiaute = "4.00"
	// Prefixo fixo do atributo Id de infNFe (Id = "NFe" + chave de acesso)
	IDPrefix = "NFe"
)

// XMLBuilderService constrói o XML da NF-e (sem assinatura).
type XMLBuilderService struct{}

// NewXMLBuilderService cria o serviço.
func NewXMLBuilderService() *XMLBuilderService {
	return &XMLBuilderService{}
}

// Build gera o []byte do documento NFe a partir do registro tipado e da chave
// de acesso. Transformação pura: a mesma entrada produz saída byte a byte
// idêntica. O escape dos caracteres reservados acontece uma única vez, dentro
// do serializador de tokens; nenhum campo é pré-escapado.
func (s *XMLBuilderService) Build(nota *entity.Nota, chave string) ([]byte, error) {
	if nota == nil {
		return nil, fmt.Errorf("%w: nota ausente", domain.ErrIncompleteRecord)
	}
	if len(chave) != 44 {
		return nil, fmt.Errorf("%w: chave de acesso deve ter 44 dígitos", domain.ErrInvalidInput)
	}
	if nota.Emitente.CNPJ == "" || nota.Destinatario.RazaoSocial == "" || len(nota.Itens) == 0 {
		return nil, fmt.Errorf("%w: emitente, destinatário e itens são obrigatórios", domain.ErrIncompleteRecord)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)

	// Raiz <NFe> com o namespace do Portal Fiscal declarado uma única vez;
	// os filhos herdam o namespace sem redeclará-lo.
	root := xml.StartElement{
		Name: xml.Name{Local: "NFe"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "xmlns"}, Value: NsNFe}},
	}
	if err := enc.EncodeToken(root); err != nil {
		return nil, err
	}

	// <infNFe Id="NFe{chave}" versao="4.00"> — o Id é a referência da assinatura.
	infNFe := xml.StartElement{
		Name: xml.Name{Local: "infNFe"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "Id"}, Value: IDPrefix + chave},
			{Name: xml.Name{Local: "versao"}, Value: VersaoLeiaute},
		},
	}
	if err := enc.EncodeToken(infNFe); err != nil {
		return nil, err
	}

	s.writeIde(enc, nota, chave)
	s.writeEmit(enc, &nota.Emitente)
	s.writeDest(enc, nota)
	for i, item := range nota.Itens {
		s.writeDet(enc, i+1, &item)
	}
	s.writeTotal(enc, &nota.Totais)

	writeStart(enc, "transp")
	writeField(enc, "modFrete", nota.ModFrete)
	writeEnd(enc, "transp")

	writeStart(enc, "pag")
	for _, pag := range nota.Pagamentos {
		writeStart(enc, "detPag")
		writeField(enc, "tPag", pag.Meio)
		writeField(enc, "vPag", formatDecimal(pag.Valor))
		writeEnd(enc, "detPag")
	}
	writeEnd(enc, "pag")

	if nota.InfAdicional != "" {
		writeStart(enc, "infAdic")
		writeField(enc, "infCpl", sanitizeText(nota.InfAdicional))
		writeEnd(enc, "infAdic")
	}

	writeEnd(enc, "infNFe")
	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeIde escreve o grupo <ide>. O cDV é extraído da própria chave (posição 44)
// e o cNF das posições 36-43, mantendo ide e chave sempre coerentes.
func (s *XMLBuilderService) writeIde(enc *xml.Encoder, nota *entity.Nota, chave string) {
	writeStart(enc, "ide")
	writeField(enc, "cUF", chave[:2])
	writeField(enc, "cNF", chave[35:43])
	writeField(enc, "natOp", sanitizeText(nota.NaturezaOperacao))
	writeField(enc, "mod", nota.Modelo)
	writeField(enc, "serie", strconv.Itoa(atoiSafe(nota.Serie)))
	writeField(enc, "nNF", strconv.Itoa(atoiSafe(nota.Numero)))
	writeField(enc, "dhEmi", nota.DataEmissao.Format("2006-01-02T15:04:05-07:00"))
	writeField(enc, "tpNF", nota.TipoOperacao)
	writeField(enc, "idDest", nota.IdDest)
	writeField(enc, "cMunFG", pkgnfe.OnlyDigits(nota.CodMunicipioFG))
	writeField(enc, "tpImp", nota.TipoImpressao)
	writeField(enc, "tpEmis", nota.TipoEmissao)
	writeField(enc, "cDV", chave[43:])
	writeField(enc, "tpAmb", nota.Ambiente)
	writeField(enc, "finNFe", nota.Finalidade)
	writeField(enc, "indFinal", nota.ConsumidorFinal)
	writeField(enc, "indPres", nota.IndPresenca)
	writeField(enc, "procEmi", nota.ProcessoEmissao)
	writeField(enc, "verProc", nota.VersaoProcesso)
	writeEnd(enc, "ide")
}

func (s *XMLBuilderService) writeEmit(enc *xml.Encoder, emit *entity.Emitente) {
	writeStart(enc, "emit")
	writeField(enc, "CNPJ", pkgnfe.OnlyDigits(emit.CNPJ))
	writeField(enc, "xNome", sanitizeText(emit.RazaoSocial))
	if emit.NomeFantasia != "" {
		writeField(enc, "xFant", sanitizeText(emit.NomeFantasia))
	}
	s.writeEndereco(enc, "enderEmit", &emit.Endereco)
	writeField(enc, "IE", pkgnfe.OnlyDigits(emit.IE))
	writeField(enc, "CRT", emit.CRT)
	writeEnd(enc, "emit")
}

func (s *XMLBuilderService) writeDest(enc *xml.Encoder, nota *entity.Nota) {
	dest := &nota.Destinatario
	writeStart(enc, "dest")
	if dest.CNPJ != "" {
		writeField(enc, "CNPJ", pkgnfe.OnlyDigits(dest.CNPJ))
	} else {
		writeField(enc, "CPF", pkgnfe.OnlyDigits(dest.CPF))
	}
	// Em homologação a SEFAZ exige a razão social fixa para o destinatário.
	nome := dest.RazaoSocial
	if nota.Ambiente == pkgnfe.AmbienteHomologacao {
		nome = pkgnfe.RazaoSocialHomologacao
	}
	writeField(enc, "xNome", sanitizeText(nome))
	s.writeEndereco(enc, "enderDest", &dest.Endereco)
	writeField(enc, "indIEDest", dest.IndIEDest)
	if dest.IE != "" {
		writeField(enc, "IE", pkgnfe.OnlyDigits(dest.IE))
	}
	writeEnd(enc, "dest")
}

func (s *XMLBuilderService) writeEndereco(enc *xml.Encoder, local string, end *entity.Endereco) {
	writeStart(enc, local)
	writeField(enc, "xLgr", sanitizeText(end.Logradouro))
	writeField(enc, "nro", end.Numero)
	writeField(enc, "xBairro", sanitizeText(end.Bairro))
	writeField(enc, "cMun", pkgnfe.OnlyDigits(end.CodMunicipio))
	writeField(enc, "xMun", sanitizeText(end.Municipio))
	writeField(enc, "UF", end.UF)
	writeField(enc, "CEP", pkgnfe.OnlyDigits(end.CEP))
	writeField(enc, "cPais", defaultIfEmpty(end.CodPais, "1058"))
	writeField(enc, "xPais", defaultIfEmpty(sanitizeText(end.Pais), "BRASIL"))
	writeEnd(enc, local)
}

// writeDet escreve um grupo <det> com o atributo nItem explícito (posição
// 1-based do item na nota).
func (s *XMLBuilderService) writeDet(enc *xml.Encoder, nItem int, item *entity.Item) {
	det := xml.StartElement{
		Name: xml.Name{Local: "det"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "nItem"}, Value: strconv.Itoa(nItem)}},
	}
	_ = enc.EncodeToken(det)

	writeStart(enc, "prod")
	writeField(enc, "cProd", item.Codigo)
	writeField(enc, "cEAN", defaultIfEmpty(item.EAN, "SEM GTIN"))
	writeField(enc, "xProd", sanitizeText(item.Descricao))
	writeField(enc, "NCM", pkgnfe.OnlyDigits(item.NCM))
	writeField(enc, "CFOP", pkgnfe.OnlyDigits(item.CFOP))
	writeField(enc, "uCom", item.Unidade)
	writeField(enc, "qCom", formatQuantity(item.Quantidade))
	writeField(enc, "vUnCom", formatDecimal(item.ValorUnitario))
	writeField(enc, "vProd", formatDecimal(item.ValorTotal))
	writeField(enc, "cEANTrib", defaultIfEmpty(item.EAN, "SEM GTIN"))
	writeField(enc, "uTrib", item.Unidade)
	writeField(enc, "qTrib", formatQuantity(item.Quantidade))
	writeField(enc, "vUnTrib", formatDecimal(item.ValorUnitario))
	writeField(enc, "indTot", "1")
	writeEnd(enc, "prod")

	writeStart(enc, "imposto")
	writeStart(enc, "ICMS")
	writeStart(enc, "ICMS00")
	writeField(enc, "orig", defaultIfEmpty(item.ICMSOrigem, "0"))
	writeField(enc, "CST", defaultIfEmpty(item.ICMSCST, "00"))
	writeField(enc, "modBC", defaultIfEmpty(item.ICMSModBC, "3"))
	writeField(enc, "vBC", formatDecimal(item.ICMSBase))
	writeField(enc, "pICMS", formatDecimal(item.ICMSAliquota))
	writeField(enc, "vICMS", formatDecimal(item.ICMSValor))
	writeEnd(enc, "ICMS00")
	writeEnd(enc, "ICMS")
	writeStart(enc, "PIS")
	writeStart(enc, "PISNT")
	writeField(enc, "CST", "07")
	writeEnd(enc, "PISNT")
	writeEnd(enc, "PIS")
	writeStart(enc, "COFINS")
	writeStart(enc, "COFINSNT")
	writeField(enc, "CST", "07")
	writeEnd(enc, "COFINSNT")
	writeEnd(enc, "COFINS")
	writeEnd(enc, "imposto")

	writeEnd(enc, "det")
}

func (s *XMLBuilderService) writeTotal(enc *xml.Encoder, t *entity.Totais) {
	writeStart(enc, "total")
	writeStart(enc, "ICMSTot")
	writeField(enc, "vBC", formatDecimal(t.BaseICMS))
	writeField(enc, "vICMS", formatDecimal(t.ValorICMS))
	writeField(enc, "vICMSDeson", "0.00")
	writeField(enc, "vBCST", "0.00")
	writeField(enc, "vST", "0.00")
	writeField(enc, "vProd", formatDecimal(t.Produtos))
	writeField(enc, "vFrete", formatDecimal(t.Frete))
	writeField(enc, "vSeg", formatDecimal(t.Seguro))
	writeField(enc, "vDesc", formatDecimal(t.Desconto))
	writeField(enc, "vII", "0.00")
	writeField(enc, "vIPI", "0.00")
	writeField(enc, "vPIS", "0.00")
	writeField(enc, "vCOFINS", "0.00")
	writeField(enc, "vOutro", formatDecimal(t.Outros))
	writeField(enc, "vNF", formatDecimal(t.ValorNota))
	writeEnd(enc, "ICMSTot")
	writeEnd(enc, "total")
}

// ── helpers de serialização ───────────────────────────────────────────────────

func writeStart(enc *xml.Encoder, local string) {
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: local}})
}

func writeEnd(enc *xml.Encoder, local string) {
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: local}})
}

func writeField(enc *xml.Encoder, local, value string) {
	writeStart(enc, local)
	_ = enc.EncodeToken(xml.CharData(value))
	writeEnd(enc, local)
}

// formatDecimal formata montantes com exatamente duas casas decimais e ponto
// como separador (ex: 1500.00).
func formatDecimal(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

// formatQuantity quantidades comerciais vão com quatro casas (padrão do leiaute).
func formatQuantity(d decimal.Decimal) string {
	return d.Round(4).StringFixed(4)
}

func defaultIfEmpty(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// removeDiacritics normaliza texto livre: NFD, remove marcas combinantes, NFC.
var removeDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// sanitizeText remove acentos e comprime espaços de campos de texto livre
// (xNome, xProd, natOp, infCpl), prática usual dos emissores para evitar
// rejeições de codificação no WS.
func sanitizeText(s string) string {
	out, _, err := transform.String(removeDiacritics, s)
	if err != nil {
		out = s
	}
	var b []rune
	lastSpace := false
	for _, r := range out {
		if unicode.IsSpace(r) {
			if !lastSpace && len(b) > 0 {
				b = append(b, ' ')
			}
			lastSpace = true
			continue
		}
		lastSpace = false
		b = append(b, r)
	}
	for len(b) > 0 && b[len(b)-1] == ' ' {
		b = b[:len(b)-1]
	}
	return string(b)
}

func atoiSafe(s string) int {
	n, _ := strconv.Atoi(pkgnfe.OnlyDigits(s))
	return n
}
