package rsakit

import (
	"crypto"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"
	"os"

	"github.com/smallstep/pkcs7"
	gopkcs12 "software.sslmate.com/src/go-pkcs12"
)

// DecodePKCS12 decodes a PKCS#12/PFX bundle and returns the private key, leaf
// certificate and CA certificates.
func DecodePKCS12(pfxData []byte, password string) (crypto.PrivateKey, *x509.Certificate, []*x509.Certificate, error) {
	privateKey, leaf, caCerts, err := gopkcs12.DecodeChain(pfxData, password)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("decoding PKCS#12: %w", err)
	}
	return privateKey, leaf, caCerts, nil
}

// DecodePKCS7 decodes a DER-encoded PKCS#7 bundle and returns the certificates it contains.
// Returns an error if decoding fails or the bundle contains no certificates.
func DecodePKCS7(derData []byte) ([]*x509.Certificate, error) {
	p7, err := pkcs7.Parse(derData)
	if err != nil {
		return nil, fmt.Errorf("parsing PKCS#7: %w", err)
	}
	if len(p7.Certificates) == 0 {
		return nil, errors.New("PKCS#7 bundle contains no certificates")
	}
	return p7.Certificates, nil
}

// privateKeyMaterial re-encodes an RSA private key as PKCS#8 and runs it
// through the header stripper, yielding the bare PKCS#1 structure.
func privateKeyMaterial(key crypto.PrivateKey) ([]byte, error) {
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: private key is %T", ErrUnsupportedKeyAlgorithm, key)
	}
	pkcs8, err := x509.MarshalPKCS8PrivateKey(rsaKey)
	if err != nil {
		return nil, fmt.Errorf("%w: marshaling PKCS#8: %w", ErrMalformedKey, err)
	}
	return StripPrivateKeyHeader(pkcs8)
}

// pkcs12KeyMaterial opens a PKCS#12 file and returns the PKCS#1 private key
// it carries.
func (k *Kit) pkcs12KeyMaterial(path, password string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrImportFailed, path, err)
	}
	key, leaf, caCerts, err := DecodePKCS12(data, k.passwordFor(password))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrImportFailed, path, err)
	}
	if key == nil {
		return nil, fmt.Errorf("%w: %s: no private key in bundle", ErrImportFailed, path)
	}
	attrs := []any{"path", path, "ca_certs", len(caCerts)}
	if leaf != nil {
		attrs = append(attrs, "subject", leaf.Subject.String())
	}
	k.log.Debug("imported PKCS#12 identity", attrs...)
	return privateKeyMaterial(key)
}
