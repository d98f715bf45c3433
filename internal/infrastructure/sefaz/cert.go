// Carga de certificado A1 (.pfx/PKCS#12) para assinatura e mTLS com a SEFAZ.

package sefaz

import (
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"os"

	"golang.org/x/crypto/pkcs12"

	"github.com/jhoicas/nfe-emissor/internal/domain"
)

// CarregarCertificadoPFX decodifica o conteúdo de um arquivo .pfx/.p12.
// A senha pode ser vazia quando o arquivo não é protegido.
func CarregarCertificadoPFX(data []byte, senha string) (tls.Certificate, error) {
	if len(data) == 0 {
		return tls.Certificate{}, fmt.Errorf("%w: PFX vazio", domain.ErrInvalidCertificate)
	}
	priv, cert, err := pkcs12.Decode(data, senha)
	if err != nil {
		// Mesma classe de erro para conteúdo corrompido e senha errada; o
		// detalhe fica no encadeamento.
		return tls.Certificate{}, fmt.Errorf("%w: decodificar PFX: %v", domain.ErrInvalidCertificate, err)
	}
	// pkcs12.Decode devolve só o certificado folha; é o que a assinatura usa.
	return tls.Certificate{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  priv,
		Leaf:        cert,
	}, nil
}

// CarregarCertificadoBase64 decodifica um PFX transportado em Base64 (caso do
// certificado enviado no corpo da requisição de emissão).
func CarregarCertificadoBase64(pfxB64, senha string) (tls.Certificate, error) {
	data, err := base64.StdEncoding.DecodeString(pfxB64)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("%w: Base64 inválido: %v", domain.ErrInvalidCertificate, err)
	}
	return CarregarCertificadoPFX(data, senha)
}

// CarregarCertificadoArquivo lê e decodifica um PFX do disco (certificado do
// emitente configurado no servidor).
func CarregarCertificadoArquivo(path, senha string) (tls.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("%w: ler %s: %v", domain.ErrInvalidCertificate, path, err)
	}
	return CarregarCertificadoPFX(data, senha)
}
