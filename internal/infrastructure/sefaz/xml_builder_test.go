package sefaz

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nfe-emissor/internal/domain"
	"github.com/jhoicas/nfe-emissor/pkg/nfe"
)

func TestBuild_Deterministico(t *testing.T) {
	svc := NewXMLBuilderService()
	nota := notaCompleta()

	a, err := svc.Build(nota, chaveTeste)
	require.NoError(t, err)
	b, err := svc.Build(nota, chaveTeste)
	require.NoError(t, err)

	assert.Equal(t, a, b, "a mesma entrada deve produzir bytes idênticos")
}

func TestBuild_RoundTrip(t *testing.T) {
	svc := NewXMLBuilderService()
	out, err := svc.Build(notaCompleta(), chaveTeste)
	require.NoError(t, err)

	var doc NFeDocument
	require.NoError(t, xml.Unmarshal(out, &doc))

	assert.Equal(t, "NFe"+chaveTeste, doc.InfNFe.ID)
	assert.Equal(t, "4.00", doc.InfNFe.Versao)

	// ide coerente com a chave
	assert.Equal(t, "35", doc.InfNFe.Ide.CUF)
	assert.Equal(t, "00000001", doc.InfNFe.Ide.CNF)
	assert.Equal(t, "0", doc.InfNFe.Ide.CDV)
	assert.Equal(t, "55", doc.InfNFe.Ide.Mod)
	assert.Equal(t, "1", doc.InfNFe.Ide.Serie)
	assert.Equal(t, "1", doc.InfNFe.Ide.NNF)
	assert.Equal(t, "2025-01-15T10:30:00-03:00", doc.InfNFe.Ide.DhEmi)

	assert.Equal(t, "12345678000195", doc.InfNFe.Emit.CNPJ)
	assert.Equal(t, "52998224725", doc.InfNFe.Dest.CPF)
	assert.Empty(t, doc.InfNFe.Dest.CNPJ)

	require.Len(t, doc.InfNFe.Det, 1)
	det := doc.InfNFe.Det[0]
	assert.Equal(t, "1", det.NItem)
	assert.Equal(t, "2.0000", det.Prod.QCom)
	assert.Equal(t, "50.00", det.Prod.VUnCom)
	assert.Equal(t, "100.00", det.Prod.VProd)
	assert.Equal(t, "SEM GTIN", det.Prod.CEAN)
	assert.Equal(t, "18.00", det.Imposto.ICMS.ICMS00.VICMS)
	assert.Equal(t, "07", det.Imposto.PIS.PISNT.CST)

	assert.Equal(t, "100.00", doc.InfNFe.Total.ICMSTot.VNF)
	assert.Equal(t, "0.00", doc.InfNFe.Total.ICMSTot.VST)
	assert.Equal(t, "9", doc.InfNFe.Transp.ModFrete)
	require.Len(t, doc.InfNFe.Pag.DetPag, 1)
	assert.Equal(t, "01", doc.InfNFe.Pag.DetPag[0].TPag)
	assert.Equal(t, "100.00", doc.InfNFe.Pag.DetPag[0].VPag)
	require.NotNil(t, doc.InfNFe.InfAdic)
	assert.Equal(t, "Emitida em ambiente de testes", doc.InfNFe.InfAdic.InfCpl)
}

func TestBuild_NamespaceDeclaradoUmaVez(t *testing.T) {
	svc := NewXMLBuilderService()
	out, err := svc.Build(notaCompleta(), chaveTeste)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(string(out), `xmlns="`+NsNFe+`"`))
}

func TestBuild_EscapaCaracteresReservadosUmaVez(t *testing.T) {
	svc := NewXMLBuilderService()
	nota := notaCompleta()
	nota.Emitente.RazaoSocial = "Acos & Ferros <SA>"

	out, err := svc.Build(nota, chaveTeste)
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "Acos &amp; Ferros &lt;SA&gt;")
	assert.NotContains(t, s, "&amp;amp;", "escape não pode ser aplicado duas vezes")

	var doc NFeDocument
	require.NoError(t, xml.Unmarshal(out, &doc))
	assert.Equal(t, "Acos & Ferros <SA>", doc.InfNFe.Emit.XNome)
}

func TestBuild_HomologacaoForcaNomeDoDestinatario(t *testing.T) {
	svc := NewXMLBuilderService()
	nota := notaCompleta()
	nota.Ambiente = nfe.AmbienteHomologacao

	out, err := svc.Build(nota, chaveTeste)
	require.NoError(t, err)

	var doc NFeDocument
	require.NoError(t, xml.Unmarshal(out, &doc))
	assert.Equal(t, nfe.RazaoSocialHomologacao, doc.InfNFe.Dest.XNome)
}

func TestBuild_NItemSequencial(t *testing.T) {
	svc := NewXMLBuilderService()
	nota := notaCompleta()
	segundo := nota.Itens[0]
	segundo.Codigo = "PROD-002"
	nota.Itens = append(nota.Itens, segundo)

	out, err := svc.Build(nota, chaveTeste)
	require.NoError(t, err)

	var doc NFeDocument
	require.NoError(t, xml.Unmarshal(out, &doc))
	require.Len(t, doc.InfNFe.Det, 2)
	assert.Equal(t, "1", doc.InfNFe.Det[0].NItem)
	assert.Equal(t, "2", doc.InfNFe.Det[1].NItem)
}

func TestBuild_EntradasInvalidas(t *testing.T) {
	svc := NewXMLBuilderService()

	_, err := svc.Build(nil, chaveTeste)
	assert.ErrorIs(t, err, domain.ErrIncompleteRecord)

	_, err = svc.Build(notaCompleta(), "123")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	nota := notaCompleta()
	nota.Itens = nil
	_, err = svc.Build(nota, chaveTeste)
	assert.ErrorIs(t, err, domain.ErrIncompleteRecord)
}
