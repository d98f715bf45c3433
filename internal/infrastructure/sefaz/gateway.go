package sefaz

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/nfe-emissor/internal/domain"
	"github.com/jhoicas/nfe-emissor/internal/domain/entity"
	pkgnfe "github.com/jhoicas/nfe-emissor/pkg/nfe"
)

// ── Constantes do web service ─────────────────────────────────────────────────

const (
	// Endpoints de autorização da SEFAZ-SP (NFeAutorizacao4). Outros estados
	// entram por configuração.
	soapURLProducao    = "https://nfe.fazenda.sp.gov.br/ws/nfeautorizacao4.asmx"
	soapURLHomologacao = "https://homologacao.nfe.fazenda.sp.gov.br/ws/nfeautorizacao4.asmx"

	soap12NS      = "http://www.w3.org/2003/05/soap-envelope"
	nsWsdlAutoriz = "http://www.portalfiscal.inf.br/nfe/wsdl/NFeAutorizacao4"
)

// ── Porta (interface) ─────────────────────────────────────────────────────────

// ResultadoAutorizacao resultado normalizado da entrega à SEFAZ. Sempre em um
// de três estados: autorizada, rejeitada ou erro; o cStat e o motivo brutos
// ficam disponíveis para auditoria.
type ResultadoAutorizacao struct {
	Status    string // entity.StatusAutorizada | StatusRejeitada | StatusErro
	CStat     string // código de status da SEFAZ (100 = autorizado o uso)
	Motivo    string // xMotivo, nunca vazio
	Protocolo string // nProt quando autorizada
}

// Autorizador porta de saída para o web service de autorização. A
// implementação concreta fala SOAP; os testes injetam um duble.
type Autorizador interface {
	// Autorizar envia a NF-e assinada em um lote síncrono de um documento.
	// ambiente é "1" (produção) ou "2" (homologação) e escolhe o endpoint.
	// Falha de transporte, cancelamento ou resposta ininteligível retornam
	// erro (domain.ErrGateway): o desfecho na SEFAZ fica indeterminado.
	Autorizar(ctx context.Context, xmlAssinado []byte, ambiente string) (*ResultadoAutorizacao, error)
}

// ── Implementação SOAP ────────────────────────────────────────────────────────

// SOAPSefazClient implementa Autorizador contra o NFeAutorizacao4 (SOAP 1.2).
type SOAPSefazClient struct {
	httpClient     *http.Client
	urlProducao    string
	urlHomologacao string
}

// NewSOAPSefazClient constrói o cliente com timeout generoso (60 s): o WS da
// SEFAZ chega a demorar vários segundos em lote síncrono. URLs vazias caem
// nos endpoints da SEFAZ-SP.
func NewSOAPSefazClient(urlProducao, urlHomologacao string) *SOAPSefazClient {
	if urlProducao == "" {
		urlProducao = soapURLProducao
	}
	if urlHomologacao == "" {
		urlHomologacao = soapURLHomologacao
	}
	return &SOAPSefazClient{
		httpClient:     &http.Client{Timeout: 60 * time.Second},
		urlProducao:    urlProducao,
		urlHomologacao: urlHomologacao,
	}
}

// ComCertificado configura o transporte com o certificado do emitente (o WS
// da SEFAZ exige mTLS).
func (c *SOAPSefazClient) ComCertificado(cert tls.Certificate) *SOAPSefazClient {
	c.httpClient.Transport = &http.Transport{
		TLSClientConfig: &tls.Config{Certificates: []tls.Certificate{cert}},
	}
	return c
}

// ── Estruturas de resposta ────────────────────────────────────────────────────

type soapRespostaEnvelope struct {
	Body soapRespostaBody `xml:"Body"`
}

type soapRespostaBody struct {
	NfeResultMsg *nfeResultMsg `xml:"nfeResultMsg"`
	Fault        *soapFault    `xml:"Fault"`
}

type nfeResultMsg struct {
	RetEnviNFe *retEnviNFe `xml:"retEnviNFe"`
}

type soapFault struct {
	Code   string `xml:"Code>Value"`
	Reason string `xml:"Reason>Text"`
}

// retEnviNFe retorno do lote (cStat 104 = lote processado em modo síncrono).
type retEnviNFe struct {
	TpAmb   string   `xml:"tpAmb"`
	CStat   string   `xml:"cStat"`
	XMotivo string   `xml:"xMotivo"`
	ProtNFe *protNFe `xml:"protNFe"`
}

type protNFe struct {
	InfProt infProt `xml:"infProt"`
}

// infProt protocolo individual da NF-e dentro do lote.
type infProt struct {
	TpAmb    string `xml:"tpAmb"`
	ChNFe    string `xml:"chNFe"`
	DhRecbto string `xml:"dhRecbto"`
	NProt    string `xml:"nProt"`
	CStat    string `xml:"cStat"`
	XMotivo  string `xml:"xMotivo"`
}

// ── Autorizar ─────────────────────────────────────────────────────────────────

// Autorizar monta o envelope enviNFe (indSinc=1), entrega ao endpoint do
// ambiente e normaliza o retorno.
func (c *SOAPSefazClient) Autorizar(ctx context.Context, xmlAssinado []byte, ambiente string) (*ResultadoAutorizacao, error) {
	url, err := c.endpoint(ambiente)
	if err != nil {
		return nil, err
	}

	payload := buildEnvelope(xmlAssinado)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: criar request: %v", domain.ErrGateway, err)
	}
	req.Header.Set("Content-Type", `application/soap+xml; charset=utf-8; action="`+nsWsdlAutoriz+`/nfeAutorizacaoLote"`)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			// Cancelado em trânsito: a SEFAZ pode ter processado ou não.
			return nil, fmt.Errorf("%w: desfecho indeterminado (%v)", domain.ErrGateway, ctx.Err())
		}
		return nil, fmt.Errorf("%w: chamada HTTP: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // max 1 MB
	if err != nil {
		return nil, fmt.Errorf("%w: ler resposta: %v", domain.ErrGateway, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d do WS de autorização", domain.ErrGateway, resp.StatusCode)
	}

	return parseRetorno(rawBody)
}

func (c *SOAPSefazClient) endpoint(ambiente string) (string, error) {
	switch ambiente {
	case pkgnfe.AmbienteProducao:
		return c.urlProducao, nil
	case pkgnfe.AmbienteHomologacao:
		return c.urlHomologacao, nil
	default:
		return "", fmt.Errorf("%w: ambiente desconhecido %q (usar \"1\" ou \"2\")", domain.ErrInvalidInput, ambiente)
	}
}

// buildEnvelope embute a NF-e assinada (sem a declaração XML) num enviNFe
// síncrono de lote unitário. O idLote só precisa ser único por emitente na
// janela de processamento.
func buildEnvelope(xmlAssinado []byte) string {
	docSemDecl := string(xmlAssinado)
	if i := strings.Index(docSemDecl, "?>"); i >= 0 {
		docSemDecl = strings.TrimLeft(docSemDecl[i+2:], "\n\r ")
	}
	idLote := fmt.Sprintf("%d", time.Now().UnixNano()%1_000_000_000_000_000)

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	sb.WriteString(`<soap12:Envelope xmlns:soap12="` + soap12NS + `">`)
	sb.WriteString(`<soap12:Body>`)
	sb.WriteString(`<nfeDadosMsg xmlns="` + nsWsdlAutoriz + `">`)
	sb.WriteString(`<enviNFe xmlns="` + NsNFe + `" versao="` + VersaoLeiaute + `">`)
	sb.WriteString(`<idLote>` + idLote + `</idLote>`)
	sb.WriteString(`<indSinc>1</indSinc>`)
	sb.WriteString(docSemDecl)
	sb.WriteString(`</enviNFe>`)
	sb.WriteString(`</nfeDadosMsg>`)
	sb.WriteString(`</soap12:Body>`)
	sb.WriteString(`</soap12:Envelope>`)
	return sb.String()
}

// parseRetorno desempacota o retEnviNFe e reduz o retorno aos três estados do
// domínio. Resposta ininteligível é falha de gateway, não rejeição.
func parseRetorno(rawBody []byte) (*ResultadoAutorizacao, error) {
	var env soapRespostaEnvelope
	if err := xml.Unmarshal(rawBody, &env); err != nil {
		return nil, fmt.Errorf("%w: resposta SOAP ilegível: %v", domain.ErrGateway, err)
	}
	if env.Body.Fault != nil {
		return nil, fmt.Errorf("%w: SOAP Fault [%s]: %s", domain.ErrGateway, env.Body.Fault.Code, env.Body.Fault.Reason)
	}
	if env.Body.NfeResultMsg == nil || env.Body.NfeResultMsg.RetEnviNFe == nil {
		return nil, fmt.Errorf("%w: resposta sem retEnviNFe: %s", domain.ErrGateway, truncate(rawBody, 256))
	}

	ret := env.Body.NfeResultMsg.RetEnviNFe
	if ret.ProtNFe == nil {
		// Lote recusado antes de processar a nota (schema, serviço parado...).
		return &ResultadoAutorizacao{
			Status: entity.StatusRejeitada,
			CStat:  ret.CStat,
			Motivo: motivoOuPadrao(ret.XMotivo),
		}, nil
	}

	prot := ret.ProtNFe.InfProt
	if prot.CStat == pkgnfe.CStatAutorizado {
		return &ResultadoAutorizacao{
			Status:    entity.StatusAutorizada,
			CStat:     prot.CStat,
			Motivo:    motivoOuPadrao(prot.XMotivo),
			Protocolo: prot.NProt,
		}, nil
	}
	return &ResultadoAutorizacao{
		Status: entity.StatusRejeitada,
		CStat:  prot.CStat,
		Motivo: motivoOuPadrao(prot.XMotivo),
	}, nil
}

// motivoOuPadrao garante motivo não vazio mesmo quando a SEFAZ omite o xMotivo.
func motivoOuPadrao(xMotivo string) string {
	if strings.TrimSpace(xMotivo) == "" {
		return "sem motivo informado pela SEFAZ"
	}
	return xMotivo
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(bytes.TrimSpace(b))
	}
	return string(b[:n]) + "..."
}

var _ Autorizador = (*SOAPSefazClient)(nil)
