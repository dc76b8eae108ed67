// Command signer produces signed license record files for distribution to
// customers. It runs offline with the operator's private key; the activation
// server never sees the private key.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aegisd/internal/license"
	"aegisd/internal/models"
)

func main() {
	var (
		edition    string
		licenseKey string
		email      string
		expiry     string
		keyPath    string
		password   string
		output     string
		batch      int
	)

	flag.StringVar(&edition, "edition", "", "Edition to license ("+strings.Join(license.Editions(), ", ")+")")
	flag.StringVar(&licenseKey, "license-key", "", "License key (auto-generated if not provided)")
	flag.StringVar(&email, "email", "", "Customer email address")
	flag.StringVar(&expiry, "expiry", "lifetime", "Expiry date (YYYY-MM-DD) or 'lifetime' for no expiry")
	flag.StringVar(&keyPath, "private-key", "", "Path to private key PEM file")
	flag.StringVar(&password, "password", "", "Password for encrypted private key")
	flag.StringVar(&output, "output", "license.json", "Output license file path")
	flag.IntVar(&batch, "batch", 1, "Generate multiple licenses (outputs to numbered files)")
	flag.Parse()

	if edition == "" || keyPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: signer -edition <edition> -private-key <path> [flags]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	ed, err := license.ParseEdition(edition)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var expiryDate *time.Time
	if !strings.EqualFold(expiry, "lifetime") {
		t, err := time.Parse(license.DateLayout, expiry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid expiry date %q (use YYYY-MM-DD or 'lifetime')\n", expiry)
			os.Exit(1)
		}
		expiryDate = &t
	}

	// A key that fails to load aborts the whole invocation before any
	// license file is written; there is no partial batch output.
	privateKey, err := license.LoadPrivateKey(keyPath, password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading private key: %v\n", err)
		if password == "" {
			fmt.Fprintln(os.Stderr, "Hint: use -password if the key is encrypted")
		}
		os.Exit(1)
	}

	signer := license.NewSigner(privateKey)

	if batch < 1 {
		batch = 1
	}

	for i := 0; i < batch; i++ {
		key := ""
		if licenseKey != "" && batch == 1 {
			key = licenseKey
		}

		record, err := signer.Sign(license.Fields{
			LicenseKey:    key,
			Edition:       ed,
			CustomerEmail: email,
			ExpiryDate:    expiryDate,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error signing license: %v\n", err)
			os.Exit(1)
		}

		outputPath := output
		if batch > 1 {
			ext := filepath.Ext(output)
			outputPath = fmt.Sprintf("%s_%03d%s", strings.TrimSuffix(output, ext), i+1, ext)
		}

		if err := writeLicense(record, outputPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing license: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("License generated: %s\n", record.LicenseKey)
		fmt.Printf("  Edition: %s\n", record.Edition)
		fmt.Printf("  Issued:  %s\n", record.IssuedDate)
		if record.ExpiryDate != nil {
			fmt.Printf("  Expires: %s\n", *record.ExpiryDate)
		} else {
			fmt.Printf("  Expires: lifetime\n")
		}
		fmt.Printf("  Output:  %s\n", outputPath)
	}
}

func writeLicense(record *models.LicenseRecord, path string) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
