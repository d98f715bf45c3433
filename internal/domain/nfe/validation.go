// Package nfe contém as regras de domínio da emissão de NF-e: chave de acesso
// e validação do registro da nota antes de qualquer chamada de rede.
package nfe

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/nfe-emissor/internal/domain"
	"github.com/jhoicas/nfe-emissor/internal/domain/entity"
	pkgnfe "github.com/jhoicas/nfe-emissor/pkg/nfe"
)

// ValidarNota valida o registro tipado da nota: campos obrigatórios presentes,
// identificadores com dígito verificador correto e totais coerentes com a soma
// dos itens. Qualquer ausência é reportada como ErrIncompleteRecord; todas as
// violações encontradas são agregadas com errors.Join preservando a ordem.
func ValidarNota(nota *entity.Nota) error {
	if nota == nil {
		return fmt.Errorf("%w: nota nula", domain.ErrIncompleteRecord)
	}
	var errs []error

	required := []struct {
		name  string
		value string
	}{
		{"natureza da operação", nota.NaturezaOperacao},
		{"modelo", nota.Modelo},
		{"série", nota.Serie},
		{"número", nota.Numero},
		{"município de fato gerador", nota.CodMunicipioFG},
		{"CNPJ do emitente", nota.Emitente.CNPJ},
		{"razão social do emitente", nota.Emitente.RazaoSocial},
		{"razão social do destinatário", nota.Destinatario.RazaoSocial},
		{"modalidade do frete", nota.ModFrete},
	}
	for _, f := range required {
		if f.value == "" {
			errs = append(errs, fmt.Errorf("%w: %s é obrigatório", domain.ErrIncompleteRecord, f.name))
		}
	}
	if nota.DataEmissao.IsZero() {
		errs = append(errs, fmt.Errorf("%w: data de emissão é obrigatória", domain.ErrIncompleteRecord))
	}

	if nota.Emitente.CNPJ != "" {
		if err := pkgnfe.ValidateCNPJ(nota.Emitente.CNPJ); err != nil {
			errs = append(errs, fmt.Errorf("emitente: %w", err))
		}
	}
	switch {
	case nota.Destinatario.CNPJ != "" && nota.Destinatario.CPF != "":
		errs = append(errs, fmt.Errorf("%w: destinatário deve ter CPF ou CNPJ, não ambos", domain.ErrIncompleteRecord))
	case nota.Destinatario.CNPJ != "":
		if err := pkgnfe.ValidateCNPJ(nota.Destinatario.CNPJ); err != nil {
			errs = append(errs, fmt.Errorf("destinatário: %w", err))
		}
	case nota.Destinatario.CPF != "":
		if err := pkgnfe.ValidateCPF(nota.Destinatario.CPF); err != nil {
			errs = append(errs, fmt.Errorf("destinatário: %w", err))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: destinatário sem CPF nem CNPJ", domain.ErrIncompleteRecord))
	}

	if nota.Emitente.Endereco.CodMunicipio == "" || nota.Destinatario.Endereco.CodMunicipio == "" {
		errs = append(errs, fmt.Errorf("%w: código de município do emitente e do destinatário são obrigatórios", domain.ErrIncompleteRecord))
	}
	if mun := pkgnfe.OnlyDigits(nota.CodMunicipioFG); len(mun) == 7 && !pkgnfe.ValidUFCodes[mun[:2]] {
		errs = append(errs, fmt.Errorf("%w: município de fato gerador %q fora das UF conhecidas", domain.ErrIncompleteRecord, nota.CodMunicipioFG))
	}

	// Itens e coerência dos totais.
	if len(nota.Itens) == 0 {
		errs = append(errs, fmt.Errorf("%w: a nota deve ter ao menos um item", domain.ErrIncompleteRecord))
	} else {
		var somaProd, somaBC, somaICMS decimal.Decimal
		for i, item := range nota.Itens {
			if item.Descricao == "" || item.Codigo == "" {
				errs = append(errs, fmt.Errorf("%w: item %d sem código ou descrição", domain.ErrIncompleteRecord, i+1))
			}
			esperado := item.Quantidade.Mul(item.ValorUnitario).Round(2)
			if !item.ValorTotal.Equal(esperado) {
				errs = append(errs, fmt.Errorf("item %d: vProd (%s) não confere com qCom × vUnCom (%s)",
					i+1, item.ValorTotal.StringFixed(2), esperado.StringFixed(2)))
			}
			somaProd = somaProd.Add(item.ValorTotal)
			somaBC = somaBC.Add(item.ICMSBase)
			somaICMS = somaICMS.Add(item.ICMSValor)
		}
		if !nota.Totais.Produtos.Equal(somaProd.Round(2)) {
			errs = append(errs, fmt.Errorf("vProd total (%s) não confere com a soma dos itens (%s)",
				nota.Totais.Produtos.StringFixed(2), somaProd.Round(2).StringFixed(2)))
		}
		if !nota.Totais.ValorICMS.Equal(somaICMS.Round(2)) {
			errs = append(errs, fmt.Errorf("vICMS total (%s) não confere com a soma dos itens (%s)",
				nota.Totais.ValorICMS.StringFixed(2), somaICMS.Round(2).StringFixed(2)))
		}
	}

	// Pagamentos devem cobrir o valor da nota.
	if len(nota.Pagamentos) == 0 {
		errs = append(errs, fmt.Errorf("%w: a nota deve ter ao menos um pagamento", domain.ErrIncompleteRecord))
	} else {
		var somaPag decimal.Decimal
		for i, pag := range nota.Pagamentos {
			if !pkgnfe.ValidPaymentCodes[pag.Meio] {
				errs = append(errs, fmt.Errorf("pagamento %d: tPag %q desconhecido", i+1, pag.Meio))
			}
			somaPag = somaPag.Add(pag.Valor)
		}
		if !somaPag.Round(2).Equal(nota.Totais.ValorNota.Round(2)) {
			errs = append(errs, fmt.Errorf("soma dos pagamentos (%s) não confere com vNF (%s)",
				somaPag.Round(2).StringFixed(2), nota.Totais.ValorNota.StringFixed(2)))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
