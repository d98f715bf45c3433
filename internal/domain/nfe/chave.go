// Package nfe: cálculo da chave de acesso da NF-e segundo o Manual de
// Orientação do Contribuinte (leiaute 4.00).
// Composição: cUF(2) AAMM(4) CNPJ(14) mod(2) serie(3) nNF(9) tpEmis(1) cNF(8) cDV(1).

package nfe

import (
	"fmt"

	"github.com/jhoicas/nfe-emissor/internal/domain"
)

// ChaveParams contém os componentes da chave de acesso nas larguras exigidas.
// Serie e Numero são completados com zeros à esquerda; os demais campos devem
// já vir na largura exata.
type ChaveParams struct {
	CUF    string // código IBGE da UF (2 dígitos)
	AAMM   string // ano e mês de emissão (4 dígitos, AAMM)
	CNPJ   string // CNPJ do emitente (14 dígitos)
	Modelo string // modelo do documento (2 dígitos, 55 = NF-e)
	Serie  string // série (até 3 dígitos)
	Numero string // número da NF (até 9 dígitos)
	TpEmis string // tipo de emissão (1 dígito)
	CNF    string // código numérico pseudoaleatório (8 dígitos)
}

// ChaveCalculatorService gera a chave de acesso de 44 dígitos.
type ChaveCalculatorService struct{}

// NewChaveCalculatorService cria o serviço.
func NewChaveCalculatorService() *ChaveCalculatorService {
	return &ChaveCalculatorService{}
}

// Generate concatena os 43 dígitos na ordem do leiaute e anexa o dígito
// verificador módulo 11. Determinística: os mesmos 43 dígitos produzem sempre
// o mesmo DV. Componentes fora da largura contratada retornam ErrInvalidInput.
func (s *ChaveCalculatorService) Generate(p *ChaveParams) (string, error) {
	if p == nil {
		return "", fmt.Errorf("%w: parâmetros da chave são obrigatórios", domain.ErrInvalidInput)
	}
	serie, err := padDigits("serie", p.Serie, 3)
	if err != nil {
		return "", err
	}
	numero, err := padDigits("numero", p.Numero, 9)
	if err != nil {
		return "", err
	}
	for _, f := range []struct {
		name  string
		value string
		width int
	}{
		{"cUF", p.CUF, 2},
		{"AAMM", p.AAMM, 4},
		{"CNPJ", p.CNPJ, 14},
		{"modelo", p.Modelo, 2},
		{"tpEmis", p.TpEmis, 1},
		{"cNF", p.CNF, 8},
	} {
		if err := checkDigits(f.name, f.value, f.width); err != nil {
			return "", err
		}
	}

	base := p.CUF + p.AAMM + p.CNPJ + p.Modelo + serie + numero + p.TpEmis + p.CNF
	dv := Mod11CheckDigit(base)
	return base + string(dv), nil
}

// Mod11CheckDigit calcula o dígito verificador da chave: percorre os 43 dígitos
// do menos para o mais significativo com peso cíclico 2..9 e acumula
// soma += dígito * peso. DV = 11 - (soma % 11); resultados 10 e 11 viram 0.
// Pressupõe entrada só de dígitos (garantida pelo chamador).
func Mod11CheckDigit(digits string) byte {
	soma := 0
	peso := 2
	for i := len(digits) - 1; i >= 0; i-- {
		soma += int(digits[i]-'0') * peso
		if peso == 9 {
			peso = 2
		} else {
			peso++
		}
	}
	dv := 11 - (soma % 11)
	if dv == 10 || dv == 11 {
		return '0'
	}
	return byte('0' + dv)
}

// ValidarChave verifica que a chave tem 44 dígitos e que o último confere com
// o DV recalculado sobre os 43 primeiros.
func ValidarChave(chave string) error {
	if err := checkDigits("chave", chave, 44); err != nil {
		return err
	}
	if dv := Mod11CheckDigit(chave[:43]); chave[43] != dv {
		return fmt.Errorf("%w: dígito verificador da chave não confere: esperado %c, recebido %c",
			domain.ErrInvalidInput, dv, chave[43])
	}
	return nil
}

func checkDigits(name, value string, width int) error {
	if len(value) != width {
		return fmt.Errorf("%w: %s deve ter %d dígitos, recebidos %d", domain.ErrInvalidInput, name, width, len(value))
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return fmt.Errorf("%w: %s contém caractere não numérico", domain.ErrInvalidInput, name)
		}
	}
	return nil
}

func padDigits(name, value string, width int) (string, error) {
	if value == "" || len(value) > width {
		return "", fmt.Errorf("%w: %s deve ter entre 1 e %d dígitos", domain.ErrInvalidInput, name, width)
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return "", fmt.Errorf("%w: %s contém caractere não numérico", domain.ErrInvalidInput, name)
		}
	}
	for len(value) < width {
		value = "0" + value
	}
	return value, nil
}
