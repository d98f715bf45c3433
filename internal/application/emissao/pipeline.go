// Package emissao orquestra o ciclo completo de emissão de uma NF-e:
//
//	validação do registro → chave de acesso → XML → validação XSD →
//	assinatura → autorização SEFAZ → persistência
//
// Cada estágio falha rápido com um erro tipado do domínio; nenhum estágio é
// pulado e a assinatura é sempre obrigatória antes do envio.
package emissao

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/nfe-emissor/internal/application/dto"
	"github.com/jhoicas/nfe-emissor/internal/domain"
	"github.com/jhoicas/nfe-emissor/internal/domain/entity"
	domnfe "github.com/jhoicas/nfe-emissor/internal/domain/nfe"
	"github.com/jhoicas/nfe-emissor/internal/domain/repository"
	"github.com/jhoicas/nfe-emissor/internal/infrastructure/sefaz"
	"github.com/jhoicas/nfe-emissor/pkg/config"
	"github.com/jhoicas/nfe-emissor/pkg/logger"
	pkgnfe "github.com/jhoicas/nfe-emissor/pkg/nfe"
)

const versaoProcesso = "1.0.0"

// EmissorUseCase caso de uso de emissão. Todas as dependências entram pelo
// construtor; o logger é injetado, nunca global.
type EmissorUseCase struct {
	repo        repository.NotaRepository
	chaves      *domnfe.ChaveCalculatorService
	builder     *sefaz.XMLBuilderService
	validador   *sefaz.XSDValidatorService
	assinador   pkgnfe.Assinador
	autorizador sefaz.Autorizador
	cfg         config.Config
	log         *logger.Logger

	// geraCNF é substituível em testes; o padrão sorteia 8 dígitos.
	geraCNF func(numero string) string
}

// NewEmissorUseCase constrói o caso de uso.
func NewEmissorUseCase(
	repo repository.NotaRepository,
	chaves *domnfe.ChaveCalculatorService,
	builder *sefaz.XMLBuilderService,
	validador *sefaz.XSDValidatorService,
	assinador pkgnfe.Assinador,
	autorizador sefaz.Autorizador,
	cfg config.Config,
	log *logger.Logger,
) *EmissorUseCase {
	return &EmissorUseCase{
		repo:        repo,
		chaves:      chaves,
		builder:     builder,
		validador:   validador,
		assinador:   assinador,
		autorizador: autorizador,
		cfg:         cfg,
		log:         log,
		geraCNF:     codigoNumerico,
	}
}

// EmitirNota executa o pipeline completo e devolve o estado final da
// tentativa. Erros de validação e de certificado interrompem antes do envio e
// nada é persistido; depois do envio toda tentativa vira registro, inclusive
// as falhas de gateway (status erro, desfecho indeterminado na SEFAZ).
func (u *EmissorUseCase) EmitirNota(ctx context.Context, req *dto.EmitirNotaRequest) (*dto.EmitirNotaResponse, error) {
	nota, err := u.montarNota(req)
	if err != nil {
		return nil, err
	}
	if err := domnfe.ValidarNota(nota); err != nil {
		return nil, err
	}

	chave, err := u.chaves.Generate(&domnfe.ChaveParams{
		CUF:    chave2(u.cfg.SEFAZ.CUF),
		AAMM:   nota.DataEmissao.Format("0601"),
		CNPJ:   pkgnfe.OnlyDigits(nota.Emitente.CNPJ),
		Modelo: nota.Modelo,
		Serie:  nota.Serie,
		Numero: nota.Numero,
		TpEmis: nota.TipoEmissao,
		CNF:    u.geraCNF(nota.Numero),
	})
	if err != nil {
		return nil, err
	}
	log := u.log.With().Str("chave", chave).Logger()

	xmlBytes, err := u.builder.Build(nota, chave)
	if err != nil {
		return nil, err
	}

	res, err := u.validador.Validar(xmlBytes)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		msgs := make([]string, len(res.Diagnostics))
		for i, d := range res.Diagnostics {
			msgs[i] = d.Message
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrSchemaViolation, strings.Join(msgs, "; "))
	}

	cert, err := u.carregarCertificado(req.Certificado)
	if err != nil {
		return nil, err
	}
	xmlAssinado, err := u.assinador.Assinar(xmlBytes, cert)
	if err != nil {
		return nil, err
	}

	registro := &entity.NotaFiscal{
		Numero:       nota.Numero,
		Serie:        nota.Serie,
		Chave:        chave,
		XML:          string(xmlAssinado),
		Ambiente:     nota.Ambiente,
		Destinatario: nota.Destinatario.RazaoSocial,
		Valor:        nota.Totais.ValorNota,
	}

	resultado, err := u.autorizador.Autorizar(ctx, xmlAssinado, nota.Ambiente)
	if err != nil {
		log.Error().Err(err).Msg("falha de gateway na autorização")
		registro.Status = entity.StatusErro
		registro.Motivo = err.Error()
	} else {
		registro.Status = resultado.Status
		registro.CStat = resultado.CStat
		registro.Motivo = resultado.Motivo
		registro.Protocolo = resultado.Protocolo
	}

	if err := u.repo.Create(ctx, registro); err != nil {
		return nil, err
	}
	log.Info().
		Str("status", registro.Status).
		Str("cStat", registro.CStat).
		Str("protocolo", registro.Protocolo).
		Msg("emissão concluída")

	resp := &dto.EmitirNotaResponse{
		ID:        registro.ID,
		Chave:     chave,
		Status:    registro.Status,
		CStat:     registro.CStat,
		Mensagem:  registro.Motivo,
		Protocolo: registro.Protocolo,
	}
	if registro.Status == entity.StatusAutorizada {
		resp.XML = registro.XML
	}
	return resp, nil
}

// montarNota combina o request com o perfil do emitente configurado e calcula
// itens e totais. Montantes são decimais exatos de ponta a ponta.
func (u *EmissorUseCase) montarNota(req *dto.EmitirNotaRequest) (*entity.Nota, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request vazio", domain.ErrInvalidInput)
	}
	in := &req.NotaFiscal

	ambiente := req.Ambiente
	if ambiente == "" {
		ambiente = u.cfg.SEFAZ.Ambiente
	}
	serie := in.Serie
	if serie == "" {
		serie = u.cfg.SEFAZ.Serie
	}
	dataEmissao := in.DataEmissao
	if dataEmissao.IsZero() {
		dataEmissao = time.Now()
	}
	modFrete := in.ModFrete
	if modFrete == "" {
		modFrete = pkgnfe.FreteSemOcorrencia
	}
	indIEDest := in.Destinatario.IndIEDest
	if indIEDest == "" {
		indIEDest = "9"
	}

	emit := u.cfg.Emitente
	nota := &entity.Nota{
		NaturezaOperacao: in.NaturezaOperacao,
		Modelo:           pkgnfe.ModeloNFe,
		Serie:            serie,
		Numero:           in.Numero,
		DataEmissao:      dataEmissao,
		TipoOperacao:     "1",
		IdDest:           "1",
		CodMunicipioFG:   emit.CodMunicipio,
		TipoImpressao:    "1",
		TipoEmissao:      pkgnfe.EmissaoNormal,
		Ambiente:         ambiente,
		Finalidade:       "1",
		ConsumidorFinal:  "1",
		IndPresenca:      "1",
		ProcessoEmissao:  "0",
		VersaoProcesso:   versaoProcesso,
		Emitente: entity.Emitente{
			CNPJ:         emit.CNPJ,
			RazaoSocial:  emit.RazaoSocial,
			NomeFantasia: emit.NomeFantasia,
			IE:           emit.IE,
			CRT:          emit.CRT,
			Endereco: entity.Endereco{
				Logradouro:   emit.Logradouro,
				Numero:       emit.Numero,
				Bairro:       emit.Bairro,
				CodMunicipio: emit.CodMunicipio,
				Municipio:    emit.Municipio,
				UF:           emit.UF,
				CEP:          emit.CEP,
			},
		},
		Destinatario: entity.Destinatario{
			CPF:         in.Destinatario.CPF,
			CNPJ:        in.Destinatario.CNPJ,
			RazaoSocial: in.Destinatario.RazaoSocial,
			IndIEDest:   indIEDest,
			IE:          in.Destinatario.IE,
			Endereco: entity.Endereco{
				Logradouro:   in.Destinatario.Endereco.Logradouro,
				Numero:       in.Destinatario.Endereco.Numero,
				Bairro:       in.Destinatario.Endereco.Bairro,
				CodMunicipio: in.Destinatario.Endereco.CodMunicipio,
				Municipio:    in.Destinatario.Endereco.Municipio,
				UF:           in.Destinatario.Endereco.UF,
				CEP:          in.Destinatario.Endereco.CEP,
			},
		},
		ModFrete:     modFrete,
		InfAdicional: in.InfAdicional,
	}

	var produtos, baseICMS, valorICMS decimal.Decimal
	for _, item := range in.Itens {
		vProd := item.Quantidade.Mul(item.ValorUnitario).Round(2)
		vICMS := vProd.Mul(item.ICMSAliquota).Div(decimal.NewFromInt(100)).Round(2)
		nota.Itens = append(nota.Itens, entity.Item{
			Codigo:        item.Codigo,
			EAN:           item.EAN,
			Descricao:     item.Descricao,
			NCM:           item.NCM,
			CFOP:          item.CFOP,
			Unidade:       item.Unidade,
			Quantidade:    item.Quantidade,
			ValorUnitario: item.ValorUnitario,
			ValorTotal:    vProd,
			ICMSBase:      vProd,
			ICMSAliquota:  item.ICMSAliquota,
			ICMSValor:     vICMS,
		})
		produtos = produtos.Add(vProd)
		baseICMS = baseICMS.Add(vProd)
		valorICMS = valorICMS.Add(vICMS)
	}

	valorNota := produtos.Sub(in.Desconto).Add(in.Frete).Add(in.Seguro)
	nota.Totais = entity.Totais{
		BaseICMS:  baseICMS,
		ValorICMS: valorICMS,
		Produtos:  produtos,
		Frete:     in.Frete,
		Seguro:    in.Seguro,
		Desconto:  in.Desconto,
		ValorNota: valorNota,
	}

	// Sem pagamentos informados: à vista em dinheiro pelo total.
	if len(in.Pagamentos) == 0 {
		nota.Pagamentos = []entity.Pagamento{{Meio: pkgnfe.PagamentoDinheiro, Valor: valorNota}}
	} else {
		for _, p := range in.Pagamentos {
			nota.Pagamentos = append(nota.Pagamentos, entity.Pagamento{Meio: p.Meio, Valor: p.Valor})
		}
	}
	return nota, nil
}

// carregarCertificado resolve o certificado de assinatura: o do request tem
// precedência; sem ele, usa o configurado (Base64 ou caminho no disco).
func (u *EmissorUseCase) carregarCertificado(req *dto.CertificadoDTO) (tls.Certificate, error) {
	if req != nil && req.PfxBase64 != "" {
		return sefaz.CarregarCertificadoBase64(req.PfxBase64, req.Senha)
	}
	sc := u.cfg.SEFAZ
	switch {
	case sc.CertPFXB64 != "":
		return sefaz.CarregarCertificadoBase64(sc.CertPFXB64, sc.CertSenha)
	case sc.CertPath != "":
		return sefaz.CarregarCertificadoArquivo(sc.CertPath, sc.CertSenha)
	default:
		return tls.Certificate{}, fmt.Errorf("%w: nenhum certificado configurado ou enviado", domain.ErrInvalidCertificate)
	}
}

// codigoNumerico sorteia os 8 dígitos do cNF, evitando o valor igual ao
// número da nota (rejeição 539 da SEFAZ).
func codigoNumerico(numero string) string {
	for {
		n, err := rand.Int(rand.Reader, big.NewInt(100_000_000))
		if err != nil {
			// Sem entropia o processo tem problemas maiores; usa o relógio.
			n = big.NewInt(time.Now().UnixNano() % 100_000_000)
		}
		cnf := fmt.Sprintf("%08d", n.Int64())
		if strings.TrimLeft(cnf, "0") != strings.TrimLeft(pkgnfe.OnlyDigits(numero), "0") {
			return cnf
		}
	}
}

// chave2 normaliza o código da UF configurado para dois dígitos.
func chave2(cuf string) string {
	cuf = pkgnfe.OnlyDigits(cuf)
	if len(cuf) == 1 {
		return "0" + cuf
	}
	return cuf
}
