package sefaz

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/nfe-emissor/internal/domain/entity"
)

// Chave coerente com a nota abaixo (cUF 35, AAMM 2501, CNPJ do emitente,
// modelo 55, série 1, nNF 1, tpEmis 1, cNF 00000001).
const chaveTeste = "35250112345678000195550010000000011000000010"

func notaCompleta() *entity.Nota {
	dhEmi := time.Date(2025, 1, 15, 10, 30, 0, 0, time.FixedZone("-03", -3*3600))
	return &entity.Nota{
		NaturezaOperacao: "VENDA DE MERCADORIA",
		Modelo:           "55",
		Serie:            "1",
		Numero:           "1",
		DataEmissao:      dhEmi,
		TipoOperacao:     "1",
		IdDest:           "1",
		CodMunicipioFG:   "3550308",
		TipoImpressao:    "1",
		TipoEmissao:      "1",
		Ambiente:         "1",
		Finalidade:       "1",
		ConsumidorFinal:  "1",
		IndPresenca:      "1",
		ProcessoEmissao:  "0",
		VersaoProcesso:   "1.0",
		Emitente: entity.Emitente{
			CNPJ:         "12345678000195",
			RazaoSocial:  "Comercial Paulista Ltda",
			NomeFantasia: "Comercial Paulista",
			IE:           "123456789012",
			CRT:          "3",
			Endereco: entity.Endereco{
				Logradouro:   "Rua das Flores",
				Numero:       "100",
				Bairro:       "Centro",
				CodMunicipio: "3550308",
				Municipio:    "Sao Paulo",
				UF:           "SP",
				CEP:          "01001000",
			},
		},
		Destinatario: entity.Destinatario{
			CPF:         "52998224725",
			RazaoSocial: "Maria da Silva",
			IndIEDest:   "9",
			Endereco: entity.Endereco{
				Logradouro:   "Avenida Brasil",
				Numero:       "200",
				Bairro:       "Jardins",
				CodMunicipio: "3550308",
				Municipio:    "Sao Paulo",
				UF:           "SP",
				CEP:          "01430000",
			},
		},
		Itens: []entity.Item{
			{
				Codigo:        "PROD-001",
				Descricao:     "Caneta esferografica azul",
				NCM:           "96081000",
				CFOP:          "5102",
				Unidade:       "UN",
				Quantidade:    decimal.NewFromInt(2),
				ValorUnitario: decimal.RequireFromString("50.00"),
				ValorTotal:    decimal.RequireFromString("100.00"),
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
		InfAdicional: "Emitida em ambiente de testes",
	}
}
