// Constantes xmldsig para a assinatura enveloped da NF-e (Manual de
// Orientação ao Contribuinte, padrão de assinatura digital).

package assinador

// Namespaces e algoritmos XMLDSig.
const (
	NamespaceNFe       = "http://www.portalfiscal.inf.br/nfe"
	NamespaceDS        = "http://www.w3.org/2000/09/xmldsig#"
	AlgC14N            = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	AlgRSASHA256       = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"
	AlgSHA256          = "http://www.w3.org/2000/09/xmldsig#sha256"
	TransformEnveloped = "http://www.w3.org/2000/09/xmldsig#enveloped-signature"
)
