// Command keygen generates the RSA key pair used for license signing.
// The private key stays with the operator; the public key is embedded in
// client software for offline verification.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"aegisd/internal/license"
)

func main() {
	var (
		outputDir   string
		privateName string
		publicName  string
		password    string
		keySize     int
		force       bool
	)

	flag.StringVar(&outputDir, "output-dir", ".", "Directory to save keys")
	flag.StringVar(&privateName, "private-key", "aegis-private.pem", "Private key filename")
	flag.StringVar(&publicName, "public-key", "aegis-public.pem", "Public key filename")
	flag.StringVar(&password, "password", "", "Password to encrypt the private key (optional but recommended)")
	flag.IntVar(&keySize, "key-size", 2048, "RSA key size in bits (2048 or 4096)")
	flag.BoolVar(&force, "force", false, "Overwrite existing key files")
	flag.Parse()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	privatePath := filepath.Join(outputDir, privateName)
	publicPath := filepath.Join(outputDir, publicName)

	fmt.Printf("Generating RSA-%d key pair...\n", keySize)

	key, err := license.GenerateKeyPair(keySize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := license.SavePrivateKey(key, privatePath, password, force); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Private key saved: %s\n", privatePath)

	if err := license.SavePublicKey(key, publicPath, force); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Public key saved:  %s\n", publicPath)

	pubPEM, err := os.ReadFile(publicPath)
	if err == nil {
		fmt.Printf("\nPublic key (embed this in clients):\n%s", pubPEM)
	}

	if password == "" {
		fmt.Println("\nWARNING: private key is unencrypted. Consider -password and offline storage.")
	}
}
