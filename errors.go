package rsakit

import "errors"

// Error kinds returned by this package. Callers test for them with errors.Is;
// the underlying primitive error, when there is one, is wrapped alongside.
var (
	// ErrMalformedKey reports key material whose ASN.1 structure does not
	// match the expected shape (wrong tag, length past the buffer, bad PKCS#1).
	ErrMalformedKey = errors.New("malformed key")

	// ErrUnsupportedKeyAlgorithm reports a key or certificate that is not RSA.
	ErrUnsupportedKeyAlgorithm = errors.New("unsupported key algorithm")

	// ErrTrustEvaluationFailed reports a certificate that does not chain to
	// the configured trust store.
	ErrTrustEvaluationFailed = errors.New("trust evaluation failed")

	// ErrImportFailed reports an unreadable file, a wrong passphrase, or a
	// corrupt or empty archive.
	ErrImportFailed = errors.New("import failed")

	// ErrKeyRegistrationFailed reports a keychain add or lookup failure other
	// than a duplicate item.
	ErrKeyRegistrationFailed = errors.New("key registration failed")

	// ErrEncryptionFailed reports a failed block during encryption or raw
	// signing. No partial ciphertext is returned.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrDecryptionFailed reports a failed block during decryption, including
	// padding that does not verify. No partial plaintext is returned.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrDecodingFailed reports Base64 or UTF-8 decoding failure of a payload.
	ErrDecodingFailed = errors.New("decoding failed")
)
