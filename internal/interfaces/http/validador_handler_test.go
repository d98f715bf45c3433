package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nfe-emissor/internal/application/dto"
	"github.com/jhoicas/nfe-emissor/internal/domain/entity"
	"github.com/jhoicas/nfe-emissor/internal/infrastructure/sefaz"
	apphttp "github.com/jhoicas/nfe-emissor/internal/interfaces/http"
	"github.com/jhoicas/nfe-emissor/pkg/logger"
)

const (
	schemaValidacao = "../../../schemas/nfe_v4.00.xsd"
	chaveValidacao  = "35250112345678000195550010000000011000000010"
)

func buildValidadorApp() *fiber.App {
	app := fiber.New()
	h := apphttp.NewValidadorHandler(schemaValidacao, logger.NewNop())
	app.Post("/api/validar-xml", h.Validar)
	return app
}

// xmlNotaValida gera um documento completo e conforme com o schema.
func xmlNotaValida(t *testing.T) []byte {
	t.Helper()
	dhEmi := time.Date(2025, 1, 15, 10, 30, 0, 0, time.FixedZone("-03", -3*3600))
	nota := &entity.Nota{
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
			CNPJ:        "12345678000195",
			RazaoSocial: "Comercial Paulista Ltda",
			IE:          "123456789012",
			CRT:         "3",
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
		ModFrete:   "9",
		Pagamentos: []entity.Pagamento{{Meio: "01", Valor: decimal.RequireFromString("100.00")}},
	}
	xmlBytes, err := sefaz.NewXMLBuilderService().Build(nota, chaveValidacao)
	require.NoError(t, err)
	return xmlBytes
}

func postValidarXML(t *testing.T, app *fiber.App, contentType string, body []byte) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/validar-xml", bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestValidarXML_CorpoBrutoValido(t *testing.T) {
	app := buildValidadorApp()
	resp := postValidarXML(t, app, "application/xml", xmlNotaValida(t))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.ValidarXMLResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Valid)
	assert.Empty(t, body.Diagnostics)
}

func TestValidarXML_EnvelopeJSONValido(t *testing.T) {
	app := buildValidadorApp()
	payload, err := json.Marshal(dto.ValidarXMLRequest{XML: string(xmlNotaValida(t))})
	require.NoError(t, err)

	resp := postValidarXML(t, app, fiber.MIMEApplicationJSON, payload)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestValidarXML_MalFormado_Retorna400ComLinha(t *testing.T) {
	app := buildValidadorApp()
	resp := postValidarXML(t, app, "application/xml", []byte("<NFe><infNFe></NFe>"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body dto.ValidarXMLResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Valid)
	require.Len(t, body.Diagnostics, 1)
	assert.Greater(t, body.Diagnostics[0].Line, 0)
}

func TestValidarXML_ViolacaoDeSchema_Retorna400ComDiagnosticos(t *testing.T) {
	app := buildValidadorApp()
	// Remove o elemento obrigatório tpAmb.
	doc := bytes.Replace(xmlNotaValida(t), []byte("<tpAmb>1</tpAmb>"), nil, 1)

	resp := postValidarXML(t, app, "application/xml", doc)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body dto.ValidarXMLResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Valid)
	require.NotEmpty(t, body.Diagnostics)
	assert.Contains(t, body.Diagnostics[0].Message, "tpAmb")
}

func TestValidarXML_SchemaInexistente_Retorna500(t *testing.T) {
	app := buildValidadorApp()
	payload, err := json.Marshal(dto.ValidarXMLRequest{
		XML:    string(xmlNotaValida(t)),
		Schema: "nao_existe.xsd",
	})
	require.NoError(t, err)

	resp := postValidarXML(t, app, fiber.MIMEApplicationJSON, payload)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "SCHEMA_UNAVAILABLE", body.Code)
}

// O campo schema não pode escapar do diretório de schemas: o path é reduzido
// ao nome base, que aqui resolve para o schema padrão existente.
func TestValidarXML_SchemaComPathTraversal_Sanitizado(t *testing.T) {
	app := buildValidadorApp()
	payload, err := json.Marshal(dto.ValidarXMLRequest{
		XML:    string(xmlNotaValida(t)),
		Schema: "../../etc/nfe_v4.00.xsd",
	})
	require.NoError(t, err)

	resp := postValidarXML(t, app, fiber.MIMEApplicationJSON, payload)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestValidarXML_JSONInvalido_Retorna400(t *testing.T) {
	app := buildValidadorApp()
	resp := postValidarXML(t, app, fiber.MIMEApplicationJSON, []byte("{nope"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
