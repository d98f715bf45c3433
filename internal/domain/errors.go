package domain

import "errors"

// Erros de domínio (sem dependências externas). Cada etapa do pipeline de
// emissão falha rápido com um destes sentinelas; o handler HTTP os mapeia
// para o status adequado.
var (
	// ErrInvalidInput componente da chave de acesso malformado (largura ou
	// caractere inválido). Erro local, nunca chega à SEFAZ.
	ErrInvalidInput = errors.New("entrada inválida")

	// ErrIncompleteRecord campo obrigatório ausente na nota; detectado antes
	// de qualquer chamada de rede.
	ErrIncompleteRecord = errors.New("nota fiscal incompleta")

	// ErrMalformedDocument o XML não é bem formado (falha de parse).
	ErrMalformedDocument = errors.New("XML malformado")

	// ErrSchemaViolation o XML é bem formado mas viola o schema do leiaute.
	ErrSchemaViolation = errors.New("XML inválido perante o schema")

	// ErrSchemaNotFound o artefato XSD não existe no caminho configurado.
	// Falha de implantação (500), distinta de um erro de conteúdo (400).
	ErrSchemaNotFound = errors.New("arquivo XSD não encontrado")

	// ErrInvalidCertificate o PKCS#12 não pôde ser decifrado (senha errada ou
	// bundle corrompido) ou não contém o par chave/certificado esperado.
	ErrInvalidCertificate = errors.New("certificado digital inválido")

	// ErrSignableElementNotFound o elemento assinável (infNFe com atributo Id)
	// não está presente no documento.
	ErrSignableElementNotFound = errors.New("elemento assinável não encontrado")

	// ErrGateway falha de transporte, timeout ou resposta ininteligível da
	// autoridade. O chamador pode tentar de novo com backoff; o núcleo não
	// faz retry automático.
	ErrGateway = errors.New("falha na comunicação com a SEFAZ")

	// ErrNotFound recurso não encontrado (nota persistida inexistente).
	ErrNotFound = errors.New("recurso não encontrado")

	// ErrDuplicate violação de unicidade (chave de acesso já persistida).
	ErrDuplicate = errors.New("recurso duplicado")

	// ErrUnauthorized token ausente ou inválido.
	ErrUnauthorized = errors.New("não autorizado")
)
