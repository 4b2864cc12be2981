package rsakit

import (
	"crypto/x509"
	"errors"
	"fmt"
	"os"

	"github.com/breml/rootcerts/embedded"
)

// loadRootPool builds the root pool certificate files are evaluated against.
func loadRootPool(cfg Config) (*x509.CertPool, error) {
	switch cfg.TrustStore {
	case TrustStoreSystem:
		pool, err := x509.SystemCertPool()
		if err != nil {
			return nil, fmt.Errorf("loading system cert pool: %w", err)
		}
		return pool, nil
	case TrustStoreMozilla:
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM([]byte(embedded.MozillaCACertificatesPEM())) {
			return nil, errors.New("parsing embedded Mozilla root certificates")
		}
		return pool, nil
	case TrustStoreCustom:
		pool := x509.NewCertPool()
		for _, cert := range cfg.CustomRoots {
			pool.AddCert(cert)
		}
		if cfg.CustomRootsFile != "" {
			data, err := os.ReadFile(cfg.CustomRootsFile)
			if err != nil {
				return nil, fmt.Errorf("reading custom roots %s: %w", cfg.CustomRootsFile, err)
			}
			certs, err := ParseCertificatesAny(data)
			if err != nil {
				return nil, fmt.Errorf("parsing custom roots %s: %w", cfg.CustomRootsFile, err)
			}
			for _, cert := range certs {
				pool.AddCert(cert)
			}
		}
		return pool, nil
	default:
		return nil, fmt.Errorf("unknown trust_store: %q", cfg.TrustStore)
	}
}

// evaluateTrust verifies leaf against roots under a basic X.509 policy:
// signature chain, validity period and CA constraints, any extended key usage.
func evaluateTrust(leaf *x509.Certificate, intermediates []*x509.Certificate, roots *x509.CertPool) error {
	pool := x509.NewCertPool()
	for _, cert := range intermediates {
		pool.AddCert(cert)
	}
	_, err := leaf.Verify(x509.VerifyOptions{
		Roots:         roots,
		Intermediates: pool,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	})
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrTrustEvaluationFailed, leaf.Subject.CommonName, err)
	}
	return nil
}
