package nfe

import "crypto/tls"

// Assinador assina o XML de uma NF-e com certificado digital (xmldsig
// enveloped sobre infNFe).
type Assinador interface {
	// Assinar recebe o XML da nota (sem assinatura) e o certificado com a
	// chave privada, e devolve o XML com o nó ds:Signature dentro de <NFe>,
	// logo após <infNFe>.
	Assinar(xmlBytes []byte, cert tls.Certificate) ([]byte, error)
}
