package rsakit

import (
	"errors"
	"fmt"
)

// Form is the encoding key material arrives in.
type Form int

const (
	// FormPEM is PEM text: a Base64 body between BEGIN/END delimiters, or an
	// OpenSSH public or private key.
	FormPEM Form = iota
	// FormDER is raw DER: SubjectPublicKeyInfo or PKCS#8, or bare PKCS#1.
	FormDER
	// FormCertificateFile is an X.509 certificate file (DER, PEM or PKCS#7).
	// Public keys only.
	FormCertificateFile
	// FormPKCS12File is a PKCS#12 identity archive. Private keys only.
	FormPKCS12File
	// FormJKSFile is a Java KeyStore. Private keys only.
	FormJKSFile
)

var formNames = map[Form]string{
	FormPEM:             "pem",
	FormDER:             "der",
	FormCertificateFile: "certificate-file",
	FormPKCS12File:      "pkcs12-file",
	FormJKSFile:         "jks-file",
}

func (f Form) String() string {
	if name, ok := formNames[f]; ok {
		return name
	}
	return fmt.Sprintf("form(%d)", int(f))
}

// KeySource describes caller-supplied key material before normalization.
// Only the field matching Form is read.
type KeySource struct {
	Role KeyRole
	Form Form
	// Text holds PEM or OpenSSH text for FormPEM.
	Text string
	// DER holds raw bytes for FormDER.
	DER []byte
	// Path names the file for the file forms.
	Path string
	// Password unlocks PKCS#12 and JKS files. Empty falls back to
	// Config.PKCS12Password.
	Password string
}

// PublicKeyPEM is a public key in PEM or OpenSSH text.
func PublicKeyPEM(text string) KeySource {
	return KeySource{Role: RolePublic, Form: FormPEM, Text: text}
}

// PrivateKeyPEM is a private key in PEM or OpenSSH text.
func PrivateKeyPEM(text string) KeySource {
	return KeySource{Role: RolePrivate, Form: FormPEM, Text: text}
}

// PublicKeyDER is a DER SubjectPublicKeyInfo or PKCS#1 RSAPublicKey.
func PublicKeyDER(der []byte) KeySource {
	return KeySource{Role: RolePublic, Form: FormDER, DER: der}
}

// PrivateKeyDER is a DER PKCS#8 PrivateKeyInfo or PKCS#1 RSAPrivateKey.
func PrivateKeyDER(der []byte) KeySource {
	return KeySource{Role: RolePrivate, Form: FormDER, DER: der}
}

// CertificateFile is the public key of the leaf certificate in the file at path.
func CertificateFile(path string) KeySource {
	return KeySource{Role: RolePublic, Form: FormCertificateFile, Path: path}
}

// PKCS12File is the private key of the PKCS#12 archive at path.
func PKCS12File(path, password string) KeySource {
	return KeySource{Role: RolePrivate, Form: FormPKCS12File, Path: path, Password: password}
}

// JKSFile is the first private key entry of the Java KeyStore at path.
func JKSFile(path, password string) KeySource {
	return KeySource{Role: RolePrivate, Form: FormJKSFile, Path: path, Password: password}
}

var errEmptyKeySource = errors.New("key source carries no material")

// validate checks that the role and form go together and that the field the
// form reads is set.
func (s KeySource) validate() error {
	if s.Role != RolePublic && s.Role != RolePrivate {
		return fmt.Errorf("%w: unknown key role %d", ErrMalformedKey, int(s.Role))
	}
	switch s.Form {
	case FormPEM:
		if s.Text == "" {
			return fmt.Errorf("%w: %s: %w", ErrMalformedKey, s.Form, errEmptyKeySource)
		}
	case FormDER:
		if len(s.DER) == 0 {
			return fmt.Errorf("%w: %s: %w", ErrMalformedKey, s.Form, errEmptyKeySource)
		}
	case FormCertificateFile:
		if s.Role != RolePublic {
			return fmt.Errorf("%w: certificate files carry public keys only", ErrImportFailed)
		}
		if s.Path == "" {
			return fmt.Errorf("%w: %s: %w", ErrImportFailed, s.Form, errEmptyKeySource)
		}
	case FormPKCS12File, FormJKSFile:
		if s.Role != RolePrivate {
			return fmt.Errorf("%w: %s carries private keys only", ErrImportFailed, s.Form)
		}
		if s.Path == "" {
			return fmt.Errorf("%w: %s: %w", ErrImportFailed, s.Form, errEmptyKeySource)
		}
	default:
		return fmt.Errorf("%w: unknown key form %d", ErrMalformedKey, int(s.Form))
	}
	return nil
}
