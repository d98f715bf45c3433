package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/pkcs12"
)

func main() {
	// Copie aqui EXATAMENTE o que está no seu .env (SEFAZ_CERT_PATH / SEFAZ_CERT_SENHA)
	certPath := os.Getenv("SEFAZ_CERT_PATH")
	certSenha := os.Getenv("SEFAZ_CERT_SENHA")
	if certPath == "" {
		certPath = "./certificado_a1.pfx"
	}

	fmt.Println("🔍 DIAGNÓSTICO DE CERTIFICADO A1 (SEFAZ)")
	fmt.Println("----------------------------------------")
	fmt.Printf("📂 Tentando ler: %s\n", certPath)

	// 1. Tentar ler o arquivo (File System Check)
	pfxData, err := os.ReadFile(certPath)
	if err != nil {
		fmt.Println("\n❌ ERRO DE ARQUIVO:")
		fmt.Printf("   Go não consegue encontrar ou abrir o arquivo.\n")
		fmt.Printf("   Detalhe técnico: %v\n", err)
		return
	}
	fmt.Printf("✅ Arquivo encontrado. Tamanho: %d bytes\n", len(pfxData))

	// 2. Tentar decodificar (Password Check)
	fmt.Println("\n🔐 Tentando decodificar o PKCS#12 com a senha...")
	_, _, err = pkcs12.Decode(pfxData, certSenha)
	if err != nil {
		fmt.Println("\n❌ ERRO DE SENHA OU FORMATO:")
		fmt.Printf("   O arquivo existe, mas a senha falhou ou o arquivo está corrompido.\n")
		fmt.Printf("   Certificados exportados com cifras modernas (AES) não são aceitos;\n")
		fmt.Printf("   reexporte com as cifras legadas (3DES/SHA1).\n")
		fmt.Printf("   Detalhe técnico: %v\n", err)
		return
	}

	fmt.Println("\n✨ SUCESSO! O certificado e a senha estão corretos.")
	fmt.Println("   O problema NÃO é o arquivo, é como a aplicação carrega o .env.")
}
