package rsakit

import "fmt"

// Normalize turns a KeySource into a Key: the material is decoded, unwrapped
// to PKCS#1, registered with the keychain and parsed back from it.
func (k *Kit) Normalize(src KeySource) (*Key, error) {
	if err := src.validate(); err != nil {
		return nil, err
	}

	der, err := k.keyMaterial(src)
	if err != nil {
		k.log.Debug("key normalization failed", "role", src.Role.String(), "form", src.Form.String(), "error", err)
		return nil, err
	}

	key, err := k.registry.materialize(src.Role, der)
	if err != nil {
		return nil, err
	}
	k.log.Debug("normalized key",
		"role", src.Role.String(),
		"form", src.Form.String(),
		"bits", key.Bits(),
		"tag", key.Tag())
	return key, nil
}

// keyMaterial returns the PKCS#1 DER carried by src.
func (k *Kit) keyMaterial(src KeySource) ([]byte, error) {
	switch src.Form {
	case FormPEM:
		return pemKeyMaterial(src.Text, src.Role, src.Password)
	case FormDER:
		return derKeyMaterial(src.DER, src.Role)
	case FormCertificateFile:
		return k.certificateKeyMaterial(src.Path)
	case FormPKCS12File:
		return k.pkcs12KeyMaterial(src.Path, src.Password)
	case FormJKSFile:
		return k.jksKeyMaterial(src.Path, src.Password)
	default:
		return nil, fmt.Errorf("%w: unknown key form %d", ErrMalformedKey, int(src.Form))
	}
}

// passwordFor returns password, or the configured default when it is empty.
func (k *Kit) passwordFor(password string) string {
	if password != "" {
		return password
	}
	return k.cfg.PKCS12Password
}
