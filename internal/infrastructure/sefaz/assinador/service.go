// Serviço de assinatura digital da NF-e (xmldsig enveloped, leiaute 4.00).
// Injeta <ds:Signature> dentro de <NFe>, logo após <infNFe>.

package assinador

import (
	"bytes"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/nfe-emissor/internal/domain"
	pkgnfe "github.com/jhoicas/nfe-emissor/pkg/nfe"
)

// AssinaturaService implementa a assinatura enveloped e injeta o nó no XML.
type AssinaturaService struct{}

// NewAssinaturaService cria o serviço.
func NewAssinaturaService() *AssinaturaService {
	return &AssinaturaService{}
}

// Assinar implementa pkg/nfe.Assinador. A referência da assinatura aponta para
// o Id de <infNFe> ("NFe" + chave de acesso); o digest cobre o elemento
// infNFe canonicalizado (C14N 1.0). Assinar de novo um documento já assinado
// substitui a assinatura existente, nunca acumula uma segunda.
func (s *AssinaturaService) Assinar(xmlBytes []byte, cert tls.Certificate) ([]byte, error) {
	if len(xmlBytes) == 0 {
		return nil, fmt.Errorf("%w: XML vazio", domain.ErrInvalidInput)
	}
	priv, ok := cert.PrivateKey.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: a chave privada deve ser RSA", domain.ErrInvalidCertificate)
	}
	if len(cert.Certificate) == 0 {
		return nil, fmt.Errorf("%w: certificado sem cadeia", domain.ErrInvalidCertificate)
	}
	x509Cert, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("%w: parsear certificado: %v", domain.ErrInvalidCertificate, err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return nil, fmt.Errorf("%w: parsear XML: %v", domain.ErrMalformedDocument, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: documento sem raiz", domain.ErrMalformedDocument)
	}
	infNFe := findChild(root, "infNFe")
	if infNFe == nil {
		return nil, fmt.Errorf("%w: infNFe ausente em <%s>", domain.ErrSignableElementNotFound, root.Tag)
	}
	id := infNFe.SelectAttrValue("Id", "")
	if id == "" {
		return nil, fmt.Errorf("%w: infNFe sem atributo Id", domain.ErrSignableElementNotFound)
	}
	// Garante exatamente um bloco de assinatura no resultado.
	for _, sig := range root.ChildElements() {
		if localTag(sig) == "Signature" {
			root.RemoveChild(sig)
		}
	}

	// 1) Digest do elemento infNFe (C14N). Reference URI="#NFe{chave}".
	docDigestB64, err := digestElement(infNFe)
	if err != nil {
		return nil, fmt.Errorf("canonicalizar infNFe: %w", err)
	}

	// 2) SignedInfo (C14N, Reference enveloped, digest SHA-256) assinado com
	// RSA PKCS#1 v1.5: determinístico para a mesma entrada e chave.
	signedInfoXML := buildSignedInfo(id, docDigestB64)
	canonicalSignedInfo, err := canonicalizeXML([]byte(signedInfoXML))
	if err != nil {
		return nil, fmt.Errorf("canonicalizar SignedInfo: %w", err)
	}
	signHash := sha256.Sum256(canonicalSignedInfo)
	signatureValue, err := rsa.SignPKCS1v15(nil, priv, crypto.SHA256, signHash[:])
	if err != nil {
		return nil, fmt.Errorf("assinar SignedInfo: %w", err)
	}

	// 3) KeyInfo com o certificado folha apenas; a SEFAZ monta a cadeia.
	certB64 := base64.StdEncoding.EncodeToString(x509Cert.Raw)
	signatureXML := buildSignature(signedInfoXML,
		base64.StdEncoding.EncodeToString(signatureValue), certB64)

	// 4) Injeta após infNFe, dentro da raiz.
	sigDoc := etree.NewDocument()
	if err := sigDoc.ReadFromString(signatureXML); err != nil {
		return nil, fmt.Errorf("parsear Signature: %w", err)
	}
	root.AddChild(sigDoc.Root())

	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("serializar XML assinado: %w", err)
	}
	return out.Bytes(), nil
}

// digestElement serializa o elemento como documento autônomo (com o namespace
// herdado tornado explícito) e calcula o digest SHA-256 da forma canônica.
func digestElement(el *etree.Element) (string, error) {
	cp := el.Copy()
	if cp.SelectAttr("xmlns") == nil {
		cp.CreateAttr("xmlns", NamespaceNFe)
	}
	sub := etree.NewDocument()
	sub.SetRoot(cp)
	raw, err := sub.WriteToBytes()
	if err != nil {
		return "", err
	}
	canonical, err := canonicalizeXML(raw)
	if err != nil {
		return "", err
	}
	digest := sha256.Sum256(canonical)
	return base64.StdEncoding.EncodeToString(digest[:]), nil
}

func canonicalizeXML(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}

func buildSignedInfo(id, docDigestB64 string) string {
	var sb strings.Builder
	sb.WriteString(`<ds:SignedInfo xmlns:ds="` + NamespaceDS + `">`)
	sb.WriteString(`<ds:CanonicalizationMethod Algorithm="` + AlgC14N + `"/>`)
	sb.WriteString(`<ds:SignatureMethod Algorithm="` + AlgRSASHA256 + `"/>`)
	sb.WriteString(`<ds:Reference URI="#` + id + `">`)
	sb.WriteString(`<ds:Transforms><ds:Transform Algorithm="` + TransformEnveloped + `"/>`)
	sb.WriteString(`<ds:Transform Algorithm="` + AlgC14N + `"/></ds:Transforms>`)
	sb.WriteString(`<ds:DigestMethod Algorithm="` + AlgSHA256 + `"/>`)
	sb.WriteString(`<ds:DigestValue>` + docDigestB64 + `</ds:DigestValue>`)
	sb.WriteString(`</ds:Reference>`)
	sb.WriteString(`</ds:SignedInfo>`)
	return sb.String()
}

func buildSignature(signedInfoXML, signatureValueB64, certB64 string) string {
	var sb strings.Builder
	sb.WriteString(`<ds:Signature xmlns:ds="` + NamespaceDS + `">`)
	sb.WriteString(signedInfoXML)
	sb.WriteString(`<ds:SignatureValue>` + signatureValueB64 + `</ds:SignatureValue>`)
	sb.WriteString(`<ds:KeyInfo><ds:X509Data><ds:X509Certificate>` + certB64 + `</ds:X509Certificate></ds:X509Data></ds:KeyInfo>`)
	sb.WriteString(`</ds:Signature>`)
	return sb.String()
}

func findChild(el *etree.Element, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if localTag(child) == tag {
			return child
		}
	}
	return nil
}

// localTag devolve o nome local ignorando prefixo de namespace.
func localTag(el *etree.Element) string {
	if i := strings.IndexByte(el.Tag, ':'); i >= 0 {
		return el.Tag[i+1:]
	}
	return el.Tag
}

var _ pkgnfe.Assinador = (*AssinaturaService)(nil)
