package rsakit

// The methods below cover every combination of direction, payload type, key
// role and key form. File forms read certificate files for public keys and
// PKCS#12 archives, unlocked with Config.PKCS12Password, for private keys.

func (k *Kit) EncryptStringWithPublicKey(s, pemKey string) (string, error) {
	return k.EncryptString(s, PublicKeyPEM(pemKey))
}

func (k *Kit) EncryptStringWithPublicKeyDER(s string, der []byte) (string, error) {
	return k.EncryptString(s, PublicKeyDER(der))
}

func (k *Kit) EncryptStringWithPublicKeyFile(s, path string) (string, error) {
	return k.EncryptString(s, CertificateFile(path))
}

func (k *Kit) EncryptStringWithPrivateKey(s, pemKey string) (string, error) {
	return k.EncryptString(s, PrivateKeyPEM(pemKey))
}

func (k *Kit) EncryptStringWithPrivateKeyDER(s string, der []byte) (string, error) {
	return k.EncryptString(s, PrivateKeyDER(der))
}

func (k *Kit) EncryptStringWithPrivateKeyFile(s, path string) (string, error) {
	return k.EncryptString(s, PKCS12File(path, ""))
}

func (k *Kit) EncryptBytesWithPublicKey(data []byte, pemKey string) ([]byte, error) {
	return k.Encrypt(data, PublicKeyPEM(pemKey))
}

func (k *Kit) EncryptBytesWithPublicKeyDER(data, der []byte) ([]byte, error) {
	return k.Encrypt(data, PublicKeyDER(der))
}

func (k *Kit) EncryptBytesWithPublicKeyFile(data []byte, path string) ([]byte, error) {
	return k.Encrypt(data, CertificateFile(path))
}

func (k *Kit) EncryptBytesWithPrivateKey(data []byte, pemKey string) ([]byte, error) {
	return k.Encrypt(data, PrivateKeyPEM(pemKey))
}

func (k *Kit) EncryptBytesWithPrivateKeyDER(data, der []byte) ([]byte, error) {
	return k.Encrypt(data, PrivateKeyDER(der))
}

func (k *Kit) EncryptBytesWithPrivateKeyFile(data []byte, path string) ([]byte, error) {
	return k.Encrypt(data, PKCS12File(path, ""))
}

func (k *Kit) DecryptStringWithPublicKey(s, pemKey string) (string, error) {
	return k.DecryptString(s, PublicKeyPEM(pemKey))
}

func (k *Kit) DecryptStringWithPublicKeyDER(s string, der []byte) (string, error) {
	return k.DecryptString(s, PublicKeyDER(der))
}

func (k *Kit) DecryptStringWithPublicKeyFile(s, path string) (string, error) {
	return k.DecryptString(s, CertificateFile(path))
}

func (k *Kit) DecryptStringWithPrivateKey(s, pemKey string) (string, error) {
	return k.DecryptString(s, PrivateKeyPEM(pemKey))
}

func (k *Kit) DecryptStringWithPrivateKeyDER(s string, der []byte) (string, error) {
	return k.DecryptString(s, PrivateKeyDER(der))
}

func (k *Kit) DecryptStringWithPrivateKeyFile(s, path string) (string, error) {
	return k.DecryptString(s, PKCS12File(path, ""))
}

func (k *Kit) DecryptBytesWithPublicKey(data []byte, pemKey string) ([]byte, error) {
	return k.Decrypt(data, PublicKeyPEM(pemKey))
}

func (k *Kit) DecryptBytesWithPublicKeyDER(data, der []byte) ([]byte, error) {
	return k.Decrypt(data, PublicKeyDER(der))
}

func (k *Kit) DecryptBytesWithPublicKeyFile(data []byte, path string) ([]byte, error) {
	return k.Decrypt(data, CertificateFile(path))
}

func (k *Kit) DecryptBytesWithPrivateKey(data []byte, pemKey string) ([]byte, error) {
	return k.Decrypt(data, PrivateKeyPEM(pemKey))
}

func (k *Kit) DecryptBytesWithPrivateKeyDER(data, der []byte) ([]byte, error) {
	return k.Decrypt(data, PrivateKeyDER(der))
}

func (k *Kit) DecryptBytesWithPrivateKeyFile(data []byte, path string) ([]byte, error) {
	return k.Decrypt(data, PKCS12File(path, ""))
}
