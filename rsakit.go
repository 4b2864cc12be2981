// Package rsakit encrypts and decrypts arbitrary payloads with RSA PKCS#1 v1.5
// in modulus-sized blocks, taking keys as PEM text, raw DER, certificate
// files, PKCS#12 archives or Java KeyStores.
//
// Public keys encrypt with random type 2 padding; private keys "encrypt" by
// raw-signing with type 1 padding, which the public key decrypts. Every key is
// normalized to PKCS#1, registered in a short-lived keychain and only then
// handed to the block engine.
package rsakit

import (
	"crypto/x509"
	"fmt"
	"log/slog"

	"github.com/sensiblebit/rsakit/internal"
	"github.com/sensiblebit/rsakit/internal/keychain"
)

// Kit normalizes keys and runs the block engine. A Kit is safe for concurrent
// use; Close releases its keychain.
type Kit struct {
	cfg      Config
	log      *slog.Logger
	roots    *x509.CertPool
	store    keychain.Store
	registry *registry
}

// New validates cfg and returns a Kit using it.
func New(cfg Config) (*Kit, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		if cfg.Log.Level != "" || cfg.Log.File != "" {
			log = internal.NewLogger(internal.LogOptions{
				Level:      cfg.Log.Level,
				File:       cfg.Log.File,
				MaxSizeMB:  cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
				MaxAgeDays: cfg.Log.MaxAgeDays,
				Compress:   cfg.Log.Compress,
			})
		} else {
			log = slog.Default()
		}
	}

	roots, err := loadRootPool(cfg)
	if err != nil {
		return nil, fmt.Errorf("loading trust store %q: %w", cfg.TrustStore, err)
	}

	store, err := keychain.Open(cfg.Keychain)
	if err != nil {
		return nil, fmt.Errorf("opening keychain: %w", err)
	}

	log.Debug("rsakit ready", "keychain", cfg.Keychain, "trust_store", cfg.TrustStore, "tag_strategy", cfg.TagStrategy)
	return &Kit{
		cfg:   cfg,
		log:   log,
		roots: roots,
		store: store,
		registry: &registry{
			store:    store,
			appTag:   cfg.AppTag,
			strategy: cfg.TagStrategy,
			retain:   cfg.RetainKeys,
			log:      log,
		},
	}, nil
}

// Open loads the YAML config at path and returns a Kit using it.
func Open(path string) (*Kit, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// Close releases the keychain. Keys already normalized stay usable.
func (k *Kit) Close() error {
	return k.store.Close()
}

// Encrypt normalizes src and transforms payload block by block. Public keys
// encrypt; private keys raw-sign so that the public key can decrypt.
func (k *Kit) Encrypt(payload []byte, src KeySource) ([]byte, error) {
	key, err := k.Normalize(src)
	if err != nil {
		return nil, err
	}
	mode := ModeEncrypt
	if key.Role() == RolePrivate {
		mode = ModeSignRaw
	}
	out, err := Transform(payload, key, mode)
	if err != nil {
		return nil, err
	}
	k.log.Debug("transformed payload", "mode", mode.String(), "in", len(payload), "out", len(out))
	return out, nil
}

// Decrypt normalizes src and recovers the plaintext of ciphertext.
func (k *Kit) Decrypt(ciphertext []byte, src KeySource) ([]byte, error) {
	key, err := k.Normalize(src)
	if err != nil {
		return nil, err
	}
	out, err := Transform(ciphertext, key, ModeDecrypt)
	if err != nil {
		return nil, err
	}
	k.log.Debug("transformed payload", "mode", ModeDecrypt.String(), "in", len(ciphertext), "out", len(out))
	return out, nil
}

// EncryptString encrypts the UTF-8 bytes of s and returns Base64 text.
func (k *Kit) EncryptString(s string, src KeySource) (string, error) {
	out, err := k.Encrypt([]byte(s), src)
	if err != nil {
		return "", err
	}
	return EncodeBase64(out), nil
}

// DecryptString decodes Base64 text, decrypts it and returns the UTF-8
// plaintext.
func (k *Kit) DecryptString(s string, src KeySource) (string, error) {
	ciphertext, err := DecodeBase64(s)
	if err != nil {
		return "", err
	}
	out, err := k.Decrypt(ciphertext, src)
	if err != nil {
		return "", err
	}
	return decodeUTF8(out)
}
