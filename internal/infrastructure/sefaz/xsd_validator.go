package sefaz

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"

	"github.com/jhoicas/nfe-emissor/internal/domain"
)

// Diagnostic uma violação encontrada na validação, com a linha de origem
// quando o parser a expõe (0 = desconhecida).
type Diagnostic struct {
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult resultado de uma chamada de validação. Efêmero: produzido
// e consumido dentro de uma única requisição.
type ValidationResult struct {
	Valid       bool         `json:"valid"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// XSDValidatorService valida um documento em duas fases: bem-formação
// (parse) e conformidade estrutural com o XSD do leiaute. O XSD é lido do
// disco a cada chamada; a sua ausência é uma falha de implantação
// (domain.ErrSchemaNotFound), nunca confundida com erro de conteúdo.
type XSDValidatorService struct {
	schemaPath string
}

// NewXSDValidatorService cria o validador apontando para o artefato XSD.
func NewXSDValidatorService(schemaPath string) *XSDValidatorService {
	return &XSDValidatorService{schemaPath: schemaPath}
}

// Validar executa as duas fases. Idempotente e sem efeitos colaterais; o
// error de retorno é reservado à ausência do schema (falha 500); problemas de
// conteúdo voltam em ValidationResult com Valid=false (falha 400).
func (s *XSDValidatorService) Validar(xmlBytes []byte) (*ValidationResult, error) {
	schema, err := s.loadSchema()
	if err != nil {
		return nil, err
	}

	// Fase 1: bem-formação. Um erro de sintaxe encerra a validação com um
	// único diagnóstico; a fase de schema não é tentada.
	if diag, ok := checkWellFormed(xmlBytes); !ok {
		return &ValidationResult{Valid: false, Diagnostics: []Diagnostic{diag}}, nil
	}

	// Fase 2: conformidade estrutural, acumulando todas as violações na
	// ordem do documento.
	diags := validateAgainstSchema(xmlBytes, schema)
	return &ValidationResult{Valid: len(diags) == 0, Diagnostics: diags}, nil
}

// loadSchema lê e interpreta o XSD do leiaute.
func (s *XSDValidatorService) loadSchema() (*schemaModel, error) {
	data, err := os.ReadFile(s.schemaPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSchemaNotFound, s.schemaPath)
		}
		return nil, fmt.Errorf("%w: ler %s: %v", domain.ErrSchemaNotFound, s.schemaPath, err)
	}
	model, err := parseSchema(data)
	if err != nil {
		return nil, fmt.Errorf("%w: XSD ilegível: %v", domain.ErrSchemaNotFound, err)
	}
	return model, nil
}

// checkWellFormed percorre todos os tokens; devolve o diagnóstico do primeiro
// erro de sintaxe com a linha reportada pelo parser.
func checkWellFormed(xmlBytes []byte) (Diagnostic, bool) {
	dec := xml.NewDecoder(bytes.NewReader(xmlBytes))
	sawRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := 0
			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				line = syntaxErr.Line
			}
			return Diagnostic{Message: "XML malformado: " + err.Error(), Line: line}, false
		}
		if _, ok := tok.(xml.StartElement); ok {
			sawRoot = true
		}
	}
	if !sawRoot {
		return Diagnostic{Message: "XML malformado: documento sem elemento raiz"}, false
	}
	return Diagnostic{}, true
}

// ── Modelo de schema ──────────────────────────────────────────────────────────

// particle um filho esperado dentro de uma sequência: ou um elemento nomeado
// ou uma escolha entre alternativas.
type particle struct {
	element      *schemaElement   // nil quando é uma escolha
	alternatives []*schemaElement // preenchido para xs:choice
	minOccurs    int
	unbounded    bool
	maxOccurs    int
}

// schemaElement declaração de elemento: atributos exigidos e sequência de
// filhos. anyContent marca declarações sem tipo (xs:anyType): a subárvore é
// aceita sem inspeção, caso do bloco ds:Signature.
type schemaElement struct {
	name       string
	attrs      []schemaAttr
	sequence   []*particle
	anyContent bool
}

type schemaAttr struct {
	name     string
	required bool
}

// schemaModel raiz do leiaute mais o namespace alvo.
type schemaModel struct {
	targetNamespace string
	root            *schemaElement
}

// parseSchema interpreta o subconjunto de XSD usado pelo leiaute embarcado:
// xs:element aninhado com xs:complexType/xs:sequence, xs:choice e
// xs:attribute use="required".
func parseSchema(data []byte) (*schemaModel, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	schemaEl := doc.Root()
	if schemaEl == nil || schemaEl.Tag != "schema" {
		return nil, fmt.Errorf("raiz do XSD deve ser xs:schema")
	}
	rootDecl := schemaEl.SelectElement("element")
	if rootDecl == nil {
		return nil, fmt.Errorf("XSD sem declaração de elemento raiz")
	}
	root, err := parseElementDecl(rootDecl)
	if err != nil {
		return nil, err
	}
	return &schemaModel{
		targetNamespace: schemaEl.SelectAttrValue("targetNamespace", ""),
		root:            root,
	}, nil
}

func parseElementDecl(el *etree.Element) (*schemaElement, error) {
	name := el.SelectAttrValue("name", "")
	if name == "" {
		return nil, fmt.Errorf("xs:element sem atributo name")
	}
	decl := &schemaElement{name: name}
	ct := el.SelectElement("complexType")
	if ct == nil {
		// Sem complexType: type="xs:string" é folha de texto; sem atributo
		// type nenhum, é xs:anyType (conteúdo livre).
		decl.anyContent = el.SelectAttrValue("type", "") == ""
		return decl, nil
	}
	for _, attr := range ct.SelectElements("attribute") {
		decl.attrs = append(decl.attrs, schemaAttr{
			name:     attr.SelectAttrValue("name", ""),
			required: attr.SelectAttrValue("use", "") == "required",
		})
	}
	seq := ct.SelectElement("sequence")
	if seq == nil {
		return decl, nil
	}
	for _, child := range seq.ChildElements() {
		switch child.Tag {
		case "element":
			sub, err := parseElementDecl(child)
			if err != nil {
				return nil, err
			}
			decl.sequence = append(decl.sequence, &particle{
				element:   sub,
				minOccurs: occursOf(child, "minOccurs", 1),
				unbounded: child.SelectAttrValue("maxOccurs", "") == "unbounded",
				maxOccurs: occursOf(child, "maxOccurs", 1),
			})
		case "choice":
			p := &particle{
				minOccurs: occursOf(child, "minOccurs", 1),
				maxOccurs: 1,
			}
			for _, alt := range child.SelectElements("element") {
				sub, err := parseElementDecl(alt)
				if err != nil {
					return nil, err
				}
				p.alternatives = append(p.alternatives, sub)
			}
			decl.sequence = append(decl.sequence, p)
		default:
			return nil, fmt.Errorf("construção XSD não suportada: xs:%s", child.Tag)
		}
	}
	return decl, nil
}

func occursOf(el *etree.Element, attr string, def int) int {
	v := el.SelectAttrValue(attr, "")
	switch v {
	case "":
		return def
	case "unbounded":
		return def
	case "0":
		return 0
	default:
		n := 0
		for i := 0; i < len(v); i++ {
			if v[i] < '0' || v[i] > '9' {
				return def
			}
			n = n*10 + int(v[i]-'0')
		}
		return n
	}
}

// ── Validação do documento contra o modelo ────────────────────────────────────

type frame struct {
	decl   *schemaElement
	seqIdx int
	counts map[*particle]int
}

// validateAgainstSchema percorre os tokens do documento acumulando violações
// na ordem em que aparecem. Pressupõe documento bem formado (fase 1 passou).
func validateAgainstSchema(xmlBytes []byte, schema *schemaModel) []Diagnostic {
	var diags []Diagnostic
	dec := xml.NewDecoder(bytes.NewReader(xmlBytes))

	addDiag := func(msg string) {
		diags = append(diags, Diagnostic{Message: msg, Line: lineAt(xmlBytes, dec.InputOffset())})
	}

	var stack []*frame
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Bem-formação já garantida; qualquer erro aqui encerra a fase.
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 {
				if t.Name.Local != schema.root.name {
					addDiag(fmt.Sprintf("elemento raiz %q inesperado: o leiaute exige <%s>", t.Name.Local, schema.root.name))
					return diags
				}
				if schema.targetNamespace != "" && t.Name.Space != schema.targetNamespace {
					addDiag(fmt.Sprintf("raiz <%s> sem o namespace %q", t.Name.Local, schema.targetNamespace))
				}
				checkAttrs(&t, schema.root, addDiag)
				stack = append(stack, &frame{decl: schema.root, counts: map[*particle]int{}})
				continue
			}

			parent := stack[len(stack)-1]
			decl, ok := matchChild(parent, t.Name.Local, addDiag)
			if !ok {
				// Elemento desconhecido: reporta e ignora a subárvore.
				addDiag(fmt.Sprintf("elemento <%s> não permitido em <%s>", t.Name.Local, parent.decl.name))
				_ = dec.Skip()
				continue
			}
			checkAttrs(&t, decl, addDiag)
			if decl.anyContent {
				_ = dec.Skip()
				continue
			}
			stack = append(stack, &frame{decl: decl, counts: map[*particle]int{}})

		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			// Partículas obrigatórias ainda não vistas.
			for _, p := range f.decl.sequence {
				if f.counts[p] < p.minOccurs {
					addDiag(fmt.Sprintf("elemento obrigatório <%s> ausente em <%s>", particleName(p), f.decl.name))
				}
			}
		}
	}
	return diags
}

// matchChild localiza a partícula correspondente ao filho na sequência do pai,
// verificando ordem e cardinalidade.
func matchChild(parent *frame, name string, addDiag func(string)) (*schemaElement, bool) {
	seq := parent.decl.sequence
	for i := parent.seqIdx; i < len(seq); i++ {
		p := seq[i]
		if decl := particleMatches(p, name); decl != nil {
			parent.counts[p]++
			if !p.unbounded && parent.counts[p] > p.maxOccurs {
				addDiag(fmt.Sprintf("elemento <%s> repetido além do permitido em <%s>", name, parent.decl.name))
			}
			// Avançar além das partículas anteriores, validando minOccurs.
			for j := parent.seqIdx; j < i; j++ {
				if parent.counts[seq[j]] < seq[j].minOccurs {
					addDiag(fmt.Sprintf("elemento obrigatório <%s> ausente em <%s>", particleName(seq[j]), parent.decl.name))
					parent.counts[seq[j]] = seq[j].minOccurs // não reportar duas vezes
				}
			}
			parent.seqIdx = i
			return decl, true
		}
	}
	// Pode ser uma repetição fora de ordem de algo já consumido.
	for i := 0; i < parent.seqIdx; i++ {
		if decl := particleMatches(seq[i], name); decl != nil {
			addDiag(fmt.Sprintf("elemento <%s> fora de ordem em <%s>", name, parent.decl.name))
			parent.counts[seq[i]]++
			return decl, true
		}
	}
	return nil, false
}

func particleMatches(p *particle, name string) *schemaElement {
	if p.element != nil {
		if p.element.name == name {
			return p.element
		}
		return nil
	}
	for _, alt := range p.alternatives {
		if alt.name == name {
			return alt
		}
	}
	return nil
}

func particleName(p *particle) string {
	if p.element != nil {
		return p.element.name
	}
	names := make([]string, len(p.alternatives))
	for i, alt := range p.alternatives {
		names[i] = alt.name
	}
	return strings.Join(names, "|")
}

func checkAttrs(start *xml.StartElement, decl *schemaElement, addDiag func(string)) {
	for _, want := range decl.attrs {
		if !want.required {
			continue
		}
		found := false
		for _, a := range start.Attr {
			if a.Name.Local == want.name {
				found = true
				break
			}
		}
		if !found {
			addDiag(fmt.Sprintf("atributo obrigatório %q ausente em <%s>", want.name, decl.name))
		}
	}
}

// lineAt converte um offset de bytes na linha (1-based) correspondente.
func lineAt(data []byte, offset int64) int {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return 1 + bytes.Count(data[:offset], []byte{'\n'})
}
