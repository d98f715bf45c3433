package nfe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nfe-emissor/pkg/nfe"
)

func TestValidateCNPJ_Validos(t *testing.T) {
	for _, cnpj := range []string{
		"12345678000195",
		"11.222.333/0001-81",
		"11444777000161",
	} {
		assert.NoError(t, nfe.ValidateCNPJ(cnpj), "CNPJ %s deve ser válido", cnpj)
	}
}

func TestValidateCNPJ_DigitoErrado(t *testing.T) {
	err := nfe.ValidateCNPJ("12345678000196")
	require.Error(t, err, "CNPJ com dígito verificador trocado deve falhar")
}

func TestValidateCNPJ_TamanhoErrado(t *testing.T) {
	assert.Error(t, nfe.ValidateCNPJ("123456780001"))
	assert.Error(t, nfe.ValidateCNPJ(""))
}

func TestValidateCNPJ_TodosIguais(t *testing.T) {
	assert.Error(t, nfe.ValidateCNPJ("11111111111111"))
}

func TestValidateCPF_Valido(t *testing.T) {
	assert.NoError(t, nfe.ValidateCPF("529.982.247-25"))
	assert.NoError(t, nfe.ValidateCPF("52998224725"))
}

func TestValidateCPF_Invalido(t *testing.T) {
	assert.Error(t, nfe.ValidateCPF("52998224724"), "dígito trocado")
	assert.Error(t, nfe.ValidateCPF("00000000000"), "todos iguais")
	assert.Error(t, nfe.ValidateCPF("5299822472"), "10 dígitos")
}

func TestOnlyDigits(t *testing.T) {
	assert.Equal(t, "12345678000195", nfe.OnlyDigits("12.345.678/0001-95"))
	assert.Equal(t, "", nfe.OnlyDigits("abc"))
}
