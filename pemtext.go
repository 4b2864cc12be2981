package rsakit

import (
	"fmt"
	"strings"
)

// PEM labels recognised per role, most specific first.
var (
	publicPEMLabels  = []string{"RSA PUBLIC KEY", "PUBLIC KEY"}
	privatePEMLabels = []string{"RSA PRIVATE KEY", "PRIVATE KEY"}
)

var pemWhitespace = strings.NewReplacer("\r", "", "\n", "", "\t", "", " ", "")

// pemBody returns the Base64 body of PEM text. The BEGIN and END delimiters
// are removed independently, so text missing its END line still yields the
// body. Text without any delimiter is taken as a bare Base64 body.
func pemBody(text string, role KeyRole) string {
	labels := publicPEMLabels
	if role == RolePrivate {
		labels = privatePEMLabels
	}

	body := text
	for _, label := range labels {
		begin := "-----BEGIN " + label + "-----"
		end := "-----END " + label + "-----"
		if !strings.Contains(body, begin) && !strings.Contains(body, end) {
			continue
		}
		if _, after, ok := strings.Cut(body, begin); ok {
			body = after
		}
		if before, _, ok := strings.Cut(body, end); ok {
			body = before
		}
		break
	}
	return pemWhitespace.Replace(body)
}

// pemKeyMaterial decodes PEM or OpenSSH text into PKCS#1 DER.
func pemKeyMaterial(text string, role KeyRole, passphrase string) ([]byte, error) {
	if isOpenSSHText(text) {
		return openSSHKeyMaterial(text, role, passphrase)
	}

	der, err := DecodeBase64(pemBody(text, role))
	if err != nil {
		return nil, fmt.Errorf("%w: PEM body: %w", ErrMalformedKey, err)
	}
	return derKeyMaterial(der, role)
}

// derKeyMaterial strips a SubjectPublicKeyInfo or PKCS#8 wrapper when der
// carries one and returns PKCS#1 DER. Bare PKCS#1 passes through unchanged.
func derKeyMaterial(der []byte, role KeyRole) ([]byte, error) {
	if len(der) == 0 {
		return nil, fmt.Errorf("%w: empty %s key", ErrMalformedKey, role)
	}
	switch role {
	case RolePublic:
		if isSubjectPublicKeyInfo(der) {
			return StripPublicKeyHeader(der)
		}
	case RolePrivate:
		if isPrivateKeyInfo(der) {
			return StripPrivateKeyHeader(der)
		}
	}
	return der, nil
}
