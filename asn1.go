package rsakit

import (
	"bytes"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// rsaAlgorithmIdentifier is the DER AlgorithmIdentifier for rsaEncryption
// (OID 1.2.840.113549.1.1.1) with NULL parameters, as emitted by openssl,
// Go's x509 package, and every common RSA export tool.
var rsaAlgorithmIdentifier = []byte{
	0x30, 0x0D, 0x06, 0x09, 0x2A, 0x86, 0x48, 0x86, 0xF7, 0x0D, 0x01, 0x01, 0x01, 0x05, 0x00,
}

// StripPublicKeyHeader removes the SubjectPublicKeyInfo wrapper from a DER
// public key and returns the inner PKCS#1 RSAPublicKey (modulus and exponent
// SEQUENCE).
//
// The walk accepts exactly one shape:
//
//	SEQUENCE {
//	  SEQUENCE { OID rsaEncryption, NULL }
//	  BIT STRING { 0x00, RSAPublicKey }
//	}
//
// Anything else fails fast rather than being partially parsed.
func StripPublicKeyHeader(der []byte) ([]byte, error) {
	input := cryptobyte.String(der)

	var spki cryptobyte.String
	if !input.ReadASN1(&spki, cbasn1.SEQUENCE) {
		return nil, fmt.Errorf("%w: expected SubjectPublicKeyInfo SEQUENCE", ErrMalformedKey)
	}

	if err := readRSAAlgorithm(&spki); err != nil {
		return nil, err
	}

	var bits cryptobyte.String
	if !spki.ReadASN1(&bits, cbasn1.BIT_STRING) {
		return nil, fmt.Errorf("%w: expected subjectPublicKey BIT STRING", ErrMalformedKey)
	}
	var unused uint8
	if !bits.ReadUint8(&unused) || unused != 0 {
		return nil, fmt.Errorf("%w: subjectPublicKey BIT STRING is not octet aligned", ErrMalformedKey)
	}
	if bits.Empty() {
		return nil, fmt.Errorf("%w: empty subjectPublicKey", ErrMalformedKey)
	}
	return []byte(bits), nil
}

// StripPrivateKeyHeader removes the PKCS#8 PrivateKeyInfo wrapper from a DER
// private key and returns the inner PKCS#1 RSAPrivateKey.
//
// The walk accepts exactly one shape:
//
//	SEQUENCE {
//	  INTEGER 0
//	  SEQUENCE { OID rsaEncryption, NULL }
//	  OCTET STRING { RSAPrivateKey }
//	  ...
//	}
//
// For keys of 512 bits and up, as produced by openssl and
// x509.MarshalPKCS8PrivateKey, the OCTET STRING tag sits at offset 22.
// Version 1 OneAsymmetricKey structures and other algorithm parameters are
// rejected.
func StripPrivateKeyHeader(der []byte) ([]byte, error) {
	input := cryptobyte.String(der)

	var info cryptobyte.String
	if !input.ReadASN1(&info, cbasn1.SEQUENCE) {
		return nil, fmt.Errorf("%w: expected PrivateKeyInfo SEQUENCE", ErrMalformedKey)
	}

	var version int64
	if !info.ReadASN1Integer(&version) {
		return nil, fmt.Errorf("%w: expected PrivateKeyInfo version", ErrMalformedKey)
	}
	if version != 0 {
		return nil, fmt.Errorf("%w: unsupported PrivateKeyInfo version %d", ErrMalformedKey, version)
	}

	if err := readRSAAlgorithm(&info); err != nil {
		return nil, err
	}

	var key cryptobyte.String
	if !info.ReadASN1(&key, cbasn1.OCTET_STRING) {
		return nil, fmt.Errorf("%w: expected privateKey OCTET STRING", ErrMalformedKey)
	}
	if key.Empty() {
		return nil, fmt.Errorf("%w: empty privateKey", ErrMalformedKey)
	}
	return []byte(key), nil
}

// readRSAAlgorithm consumes an AlgorithmIdentifier element and checks that it
// is byte-for-byte the rsaEncryption identifier.
func readRSAAlgorithm(s *cryptobyte.String) error {
	var alg cryptobyte.String
	if !s.ReadASN1Element(&alg, cbasn1.SEQUENCE) {
		return fmt.Errorf("%w: expected AlgorithmIdentifier SEQUENCE", ErrMalformedKey)
	}
	if !bytes.Equal(alg, rsaAlgorithmIdentifier) {
		return fmt.Errorf("%w: AlgorithmIdentifier is not rsaEncryption", ErrUnsupportedKeyAlgorithm)
	}
	return nil
}

// isSubjectPublicKeyInfo reports whether der looks like a wrapped public key
// (first child of the outer SEQUENCE is itself a SEQUENCE) rather than a bare
// PKCS#1 RSAPublicKey (first child is the modulus INTEGER).
func isSubjectPublicKeyInfo(der []byte) bool {
	input := cryptobyte.String(der)
	var outer cryptobyte.String
	if !input.ReadASN1(&outer, cbasn1.SEQUENCE) {
		return false
	}
	return outer.PeekASN1Tag(cbasn1.SEQUENCE)
}

// isPrivateKeyInfo reports whether der looks like a PKCS#8 PrivateKeyInfo
// (version INTEGER followed by a SEQUENCE) rather than a bare PKCS#1
// RSAPrivateKey (version INTEGER followed by the modulus INTEGER).
func isPrivateKeyInfo(der []byte) bool {
	input := cryptobyte.String(der)
	var outer cryptobyte.String
	if !input.ReadASN1(&outer, cbasn1.SEQUENCE) {
		return false
	}
	if !outer.SkipASN1(cbasn1.INTEGER) {
		return false
	}
	return outer.PeekASN1Tag(cbasn1.SEQUENCE)
}
