package rsakit

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// parsePEMCertificates parses all CERTIFICATE blocks from PEM data,
// skipping blocks of any other type.
func parsePEMCertificates(pemData []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	rest := pemData
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parsing certificate: %w", err)
		}
		certs = append(certs, cert)
	}
	if len(certs) == 0 {
		return nil, errors.New("no certificates found in PEM data")
	}
	return certs, nil
}

// ParseCertificatesAny parses certificates from raw bytes, trying DER first
// (a single .der/.cer certificate, the common case), then PEM, then PKCS#7
// (.p7b/.p7c bundles). The first certificate returned is the leaf.
func ParseCertificatesAny(data []byte) ([]*x509.Certificate, error) {
	cert, derErr := x509.ParseCertificate(data)
	if derErr == nil {
		return []*x509.Certificate{cert}, nil
	}
	certs, pemErr := parsePEMCertificates(data)
	if pemErr == nil {
		return certs, nil
	}
	certs, p7Err := DecodePKCS7(data)
	if p7Err == nil {
		return certs, nil
	}
	return nil, fmt.Errorf("not DER (%v) or PEM (%v) or PKCS#7 (%v)", derErr, pemErr, p7Err)
}

// certificateKeyMaterial loads a certificate file, evaluates its trust and
// returns the PKCS#1 public key of the leaf.
func (k *Kit) certificateKeyMaterial(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrImportFailed, path, err)
	}
	certs, err := ParseCertificatesAny(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrImportFailed, path, err)
	}
	leaf := certs[0]

	if err := evaluateTrust(leaf, certs[1:], k.roots); err != nil {
		k.log.Warn("certificate not trusted", "path", path, "subject", leaf.Subject.String(), "error", err)
		return nil, err
	}

	inner, err := StripPublicKeyHeader(leaf.RawSubjectPublicKeyInfo)
	if err != nil {
		return nil, fmt.Errorf("certificate %s: %w", path, err)
	}
	k.log.Debug("trusted certificate", "path", path, "subject", leaf.Subject.String(), "chain", len(certs))
	return inner, nil
}
