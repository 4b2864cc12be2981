package rsakit

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pavlo-v-chernykh/keystore-go/v4"
)

// DecodeJKSPrivateKey loads a Java KeyStore and returns the PKCS#8 bytes of
// its first private key entry in alias order. The same password is used for
// the store and the entry (standard Java convention).
func DecodeJKSPrivateKey(data []byte, password string) (alias string, pkcs8 []byte, err error) {
	ks := keystore.New(keystore.WithOrderedAliases())
	if err := ks.Load(bytes.NewReader(data), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("loading JKS: %w", err)
	}

	for _, alias := range ks.Aliases() {
		if !ks.IsPrivateKeyEntry(alias) {
			continue
		}
		entry, err := ks.GetPrivateKeyEntry(alias, []byte(password))
		if err != nil {
			return "", nil, fmt.Errorf("reading JKS entry %q: %w", alias, err)
		}
		return alias, entry.PrivateKey, nil
	}
	return "", nil, errors.New("JKS contains no private key entries")
}

// jksKeyMaterial opens a JKS file and returns the PKCS#1 private key of its
// first private key entry.
func (k *Kit) jksKeyMaterial(path, password string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrImportFailed, path, err)
	}
	alias, pkcs8, err := DecodeJKSPrivateKey(data, k.passwordFor(password))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrImportFailed, path, err)
	}
	k.log.Debug("imported JKS private key", "path", path, "alias", alias)
	return StripPrivateKeyHeader(pkcs8)
}
