// Command activate runs on a customer machine. It computes the hardware
// fingerprint and activates a license key against the activation server, or
// verifies a local license file offline when no server is reachable.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"aegisd/internal/client"
	"aegisd/internal/hwid"
	"aegisd/internal/license"
	"aegisd/internal/models"
)

// embeddedPublicKey is replaced at build time via -ldflags when installers
// are produced; the -public-key flag overrides it.
var embeddedPublicKey = ""

func main() {
	var (
		serverURL   string
		licenseKey  string
		licenseFile string
		pubKeyPath  string
		checkOnly   bool
		offline     bool
	)

	flag.StringVar(&serverURL, "server", "http://localhost:8080", "Activation server base URL")
	flag.StringVar(&licenseKey, "license-key", "", "License key to activate")
	flag.StringVar(&licenseFile, "license-file", "", "Path to a signed license.json (offline mode)")
	flag.StringVar(&pubKeyPath, "public-key", "", "Public key PEM for offline verification")
	flag.BoolVar(&checkOnly, "check", false, "Check status without binding")
	flag.BoolVar(&offline, "offline", false, "Skip the server, verify the license file locally")
	flag.Parse()

	fp := hwid.New()
	hardwareID := fp.Compute()
	fmt.Printf("Hardware fingerprint: %s\n", hardwareID)

	if offline {
		if err := verifyOffline(licenseFile, pubKeyPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if licenseKey == "" {
		fmt.Fprintln(os.Stderr, "Usage: activate -license-key <key> [-server <url>] [-check]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := client.New(serverURL)
	var resp *client.ActivationResponse
	var err error
	if checkOnly {
		resp, err = c.CheckStatus(ctx, licenseKey, hardwareID)
	} else {
		resp, err = c.Activate(ctx, licenseKey, hardwareID)
	}
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			fmt.Fprintf(os.Stderr, "Activation rejected: %s\n", apiErr.Message)
			os.Exit(1)
		}
		// Server unreachable: fall back to offline verification when a
		// license file is on hand.
		if licenseFile != "" {
			fmt.Printf("Server unreachable (%v), verifying license file offline\n", err)
			if err := verifyOffline(licenseFile, pubKeyPath); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", resp.Message)
	fmt.Printf("  Tier:    %s\n", resp.Tier)
	if resp.ExpiryDate != nil {
		fmt.Printf("  Expires: %s\n", *resp.ExpiryDate)
	} else {
		fmt.Printf("  Expires: lifetime\n")
	}
	fmt.Printf("  Token:   %s\n", resp.Token)
}

func verifyOffline(licenseFile, pubKeyPath string) error {
	if licenseFile == "" {
		return fmt.Errorf("offline verification requires -license-file")
	}

	pemData := []byte(embeddedPublicKey)
	if pubKeyPath != "" {
		data, err := os.ReadFile(pubKeyPath)
		if err != nil {
			return fmt.Errorf("failed to read public key: %w", err)
		}
		pemData = data
	}
	if len(pemData) == 0 {
		return fmt.Errorf("no public key available (use -public-key)")
	}

	pub, err := license.ParsePublicKey(pemData)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(licenseFile)
	if err != nil {
		return fmt.Errorf("failed to read license file: %w", err)
	}
	var record models.LicenseRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("failed to parse license file: %w", err)
	}

	switch result := license.Verify(&record, pub, time.Now()); result {
	case license.Valid:
		fmt.Printf("License %s is valid (edition %s)\n", record.LicenseKey, record.Edition)
		return nil
	case license.Expired:
		return fmt.Errorf("license %s has expired", record.LicenseKey)
	default:
		return fmt.Errorf("license %s has an invalid signature", record.LicenseKey)
	}
}
