package nfe

import (
	"fmt"
	"unicode"
)

// pesos do primeiro e segundo dígito verificador do CNPJ (módulo 11 da RFB).
var (
	cnpjWeights1 = [12]int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = [13]int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// ValidateCNPJ valida que o CNPJ (com ou sem máscara) tenha 14 dígitos e
// dígitos verificadores corretos segundo o algoritmo módulo 11 da Receita Federal.
// cnpj pode ser "12.345.678/0001-95" ou "12345678000195".
func ValidateCNPJ(cnpj string) error {
	digits := extractDigits(cnpj)
	if len(digits) != 14 {
		return fmt.Errorf("nfe: CNPJ deve ter 14 dígitos, foram encontrados %d", len(digits))
	}
	if allEqual(digits) {
		return fmt.Errorf("nfe: CNPJ com todos os dígitos iguais é inválido")
	}
	d1 := mod11Digit(digits[:12], cnpjWeights1[:])
	if digits[12] != d1 {
		return fmt.Errorf("nfe: primeiro dígito verificador do CNPJ inválido: esperado %c, recebido %c", d1, digits[12])
	}
	d2 := mod11Digit(digits[:13], cnpjWeights2[:])
	if digits[13] != d2 {
		return fmt.Errorf("nfe: segundo dígito verificador do CNPJ inválido: esperado %c, recebido %c", d2, digits[13])
	}
	return nil
}

// ValidateCPF valida que o CPF (com ou sem máscara) tenha 11 dígitos e
// dígitos verificadores corretos.
func ValidateCPF(cpf string) error {
	digits := extractDigits(cpf)
	if len(digits) != 11 {
		return fmt.Errorf("nfe: CPF deve ter 11 dígitos, foram encontrados %d", len(digits))
	}
	if allEqual(digits) {
		return fmt.Errorf("nfe: CPF com todos os dígitos iguais é inválido")
	}
	if d := cpfDigit(digits[:9], 10); digits[9] != d {
		return fmt.Errorf("nfe: primeiro dígito verificador do CPF inválido: esperado %c, recebido %c", d, digits[9])
	}
	if d := cpfDigit(digits[:10], 11); digits[10] != d {
		return fmt.Errorf("nfe: segundo dígito verificador do CPF inválido: esperado %c, recebido %c", d, digits[10])
	}
	return nil
}

// OnlyDigits deixa apenas dígitos 0-9 (para CNPJ, CPF, CEP, códigos de município).
func OnlyDigits(s string) string {
	return string(extractDigits(s))
}

// mod11Digit calcula um dígito verificador módulo 11 com os pesos dados
// (resto < 2 -> 0, senão 11 - resto).
func mod11Digit(base []byte, weights []int) byte {
	var sum int
	for i, d := range base {
		sum += int(d-'0') * weights[i]
	}
	r := sum % 11
	if r < 2 {
		return '0'
	}
	return byte('0' + (11 - r))
}

// cpfDigit calcula um dígito verificador do CPF: pesos decrescentes a partir
// de firstWeight, (soma*10) % 11, 10 -> 0.
func cpfDigit(base []byte, firstWeight int) byte {
	var sum int
	for i, d := range base {
		sum += int(d-'0') * (firstWeight - i)
	}
	r := (sum * 10) % 11
	if r == 10 {
		r = 0
	}
	return byte('0' + r)
}

func allEqual(digits []byte) bool {
	for _, d := range digits[1:] {
		if d != digits[0] {
			return false
		}
	}
	return true
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}
