package nfe_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nfe-emissor/internal/domain"
	"github.com/jhoicas/nfe-emissor/internal/domain/entity"
	"github.com/jhoicas/nfe-emissor/internal/domain/nfe"
)

// notaValida monta uma nota completa com um item, totais e pagamento coerentes.
func notaValida() *entity.Nota {
	endereco := entity.Endereco{
		Logradouro:   "Rua das Laranjeiras",
		Numero:       "100",
		Bairro:       "Centro",
		CodMunicipio: "3550308",
		Municipio:    "Sao Paulo",
		UF:           "SP",
		CEP:          "01000000",
		CodPais:      "1058",
		Pais:         "BRASIL",
	}
	return &entity.Nota{
		NaturezaOperacao: "VENDA",
		Modelo:           "55",
		Serie:            "1",
		Numero:           "123",
		DataEmissao:      time.Date(2025, 1, 15, 10, 0, 0, 0, time.FixedZone("BRT", -3*3600)),
		TipoOperacao:     "1",
		IdDest:           "1",
		CodMunicipioFG:   "3550308",
		TipoImpressao:    "1",
		TipoEmissao:      "1",
		Ambiente:         "2",
		Finalidade:       "1",
		ConsumidorFinal:  "1",
		IndPresenca:      "1",
		ProcessoEmissao:  "0",
		VersaoProcesso:   "1.0",
		Emitente: entity.Emitente{
			CNPJ:         "12345678000195",
			RazaoSocial:  "Empresa Exemplo LTDA",
			NomeFantasia: "Exemplo",
			Endereco:     endereco,
			IE:           "123456789",
			CRT:          "3",
		},
		Destinatario: entity.Destinatario{
			CPF:         "52998224725",
			RazaoSocial: "Cliente Teste",
			Endereco:    endereco,
			IndIEDest:   "9",
		},
		Itens: []entity.Item{
			{
				Codigo:        "P001",
				EAN:           "SEM GTIN",
				Descricao:     "Produto de teste",
				NCM:           "61091000",
				CFOP:          "5102",
				Unidade:       "UN",
				Quantidade:    decimal.NewFromInt(2),
				ValorUnitario: decimal.RequireFromString("50.00"),
				ValorTotal:    decimal.RequireFromString("100.00"),
				ICMSOrigem:    "0",
				ICMSCST:       "00",
				ICMSModBC:     "3",
				ICMSBase:      decimal.RequireFromString("100.00"),
				ICMSAliquota:  decimal.RequireFromString("18.00"),
				ICMSValor:     decimal.RequireFromString("18.00"),
			},
		},
		Totais: entity.Totais{
			BaseICMS:  decimal.RequireFromString("100.00"),
			ValorICMS: decimal.RequireFromString("18.00"),
			Produtos:  decimal.RequireFromString("100.00"),
			ValorNota: decimal.RequireFromString("100.00"),
		},
		ModFrete: "9",
		Pagamentos: []entity.Pagamento{
			{Meio: "01", Valor: decimal.RequireFromString("100.00")},
		},
	}
}

func TestValidarNota_Completa(t *testing.T) {
	require.NoError(t, nfe.ValidarNota(notaValida()))
}

func TestValidarNota_Nula(t *testing.T) {
	err := nfe.ValidarNota(nil)
	assert.ErrorIs(t, err, domain.ErrIncompleteRecord)
}

func TestValidarNota_SemDestinatario(t *testing.T) {
	nota := notaValida()
	nota.Destinatario.CPF = ""
	err := nfe.ValidarNota(nota)
	assert.ErrorIs(t, err, domain.ErrIncompleteRecord)
}

func TestValidarNota_SemItens(t *testing.T) {
	nota := notaValida()
	nota.Itens = nil
	err := nfe.ValidarNota(nota)
	assert.ErrorIs(t, err, domain.ErrIncompleteRecord)
}

func TestValidarNota_CNPJEmitenteInvalido(t *testing.T) {
	nota := notaValida()
	nota.Emitente.CNPJ = "12345678000199"
	assert.Error(t, nfe.ValidarNota(nota))
}

func TestValidarNota_TotalItemIncoerente(t *testing.T) {
	nota := notaValida()
	nota.Itens[0].ValorTotal = decimal.RequireFromString("99.00")
	assert.Error(t, nfe.ValidarNota(nota), "vProd do item diferente de qCom × vUnCom deve falhar")
}

func TestValidarNota_PagamentoNaoCobreNota(t *testing.T) {
	nota := notaValida()
	nota.Pagamentos[0].Valor = decimal.RequireFromString("50.00")
	assert.Error(t, nfe.ValidarNota(nota))
}

func TestValidarNota_CPFeCNPJSimultaneos(t *testing.T) {
	nota := notaValida()
	nota.Destinatario.CNPJ = "11222333000181"
	err := nfe.ValidarNota(nota)
	assert.ErrorIs(t, err, domain.ErrIncompleteRecord)
}

// TestValidarNota_AgregaViolacoes verifica que múltiplas violações são
// reportadas juntas, não apenas a primeira.
func TestValidarNota_AgregaViolacoes(t *testing.T) {
	nota := notaValida()
	nota.NaturezaOperacao = ""
	nota.Itens = nil
	err := nfe.ValidarNota(nota)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "natureza da operação")
	assert.Contains(t, err.Error(), "ao menos um item")
}
