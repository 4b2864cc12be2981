package keychain

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/pavlo-v-chernykh/keystore-go/v4"
)

// publicKeyCertType marks trusted-certificate entries that carry a bare
// PKCS#1 public key instead of an X.509 certificate.
const publicKeyCertType = "RSA-PKCS1"

// MemStore keeps items in an in-memory Java KeyStore. Private keys are held
// as password-protected private-key entries under a per-store random
// password; public keys are held as trusted-certificate entries.
type MemStore struct {
	mu       sync.Mutex
	ks       keystore.KeyStore
	password []byte
}

// NewMemStore creates an empty MemStore.
func NewMemStore() (*MemStore, error) {
	secret := make([]byte, 24)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generating keychain password: %w", err)
	}
	return &MemStore{
		ks:       keystore.New(keystore.WithCaseExactAliases(), keystore.WithOrderedAliases()),
		password: []byte(hex.EncodeToString(secret)),
	}, nil
}

func alias(tag string, class Class) string {
	return string(class) + "/" + tag
}

func (s *MemStore) exists(a string) bool {
	return s.ks.IsPrivateKeyEntry(a) || s.ks.IsTrustedCertificateEntry(a)
}

// Add implements Store.
func (s *MemStore) Add(item Item) error {
	if err := validateItem(item); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	a := alias(item.Tag, item.Class)
	if s.exists(a) {
		return ErrDuplicateItem
	}

	data := bytes.Clone(item.Data)
	switch item.Class {
	case ClassPrivate:
		if err := s.ks.SetPrivateKeyEntry(a, keystore.PrivateKeyEntry{
			CreationTime: time.Now(),
			PrivateKey:   data,
		}, s.password); err != nil {
			return fmt.Errorf("setting private key entry %s: %w", a, err)
		}
	case ClassPublic:
		if err := s.ks.SetTrustedCertificateEntry(a, keystore.TrustedCertificateEntry{
			CreationTime: time.Now(),
			Certificate:  keystore.Certificate{Type: publicKeyCertType, Content: data},
		}); err != nil {
			return fmt.Errorf("setting public key entry %s: %w", a, err)
		}
	}
	return nil
}

// CopyMatching implements Store.
func (s *MemStore) CopyMatching(tag string, class Class) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := alias(tag, class)
	switch {
	case class == ClassPrivate && s.ks.IsPrivateKeyEntry(a):
		entry, err := s.ks.GetPrivateKeyEntry(a, s.password)
		if err != nil {
			return nil, fmt.Errorf("reading private key entry %s: %w", a, err)
		}
		return bytes.Clone(entry.PrivateKey), nil
	case class == ClassPublic && s.ks.IsTrustedCertificateEntry(a):
		entry, err := s.ks.GetTrustedCertificateEntry(a)
		if err != nil {
			return nil, fmt.Errorf("reading public key entry %s: %w", a, err)
		}
		if entry.Certificate.Type != publicKeyCertType {
			return nil, fmt.Errorf("entry %s holds %q, not a public key", a, entry.Certificate.Type)
		}
		return bytes.Clone(entry.Certificate.Content), nil
	default:
		return nil, ErrItemNotFound
	}
}

// Delete implements Store.
func (s *MemStore) Delete(tag string, class Class) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := alias(tag, class)
	if !s.exists(a) {
		return ErrItemNotFound
	}
	s.ks.DeleteEntry(a)
	return nil
}

// Len returns the number of items held.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ks.Aliases())
}

// Close drops every entry.
func (s *MemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.ks.Aliases() {
		s.ks.DeleteEntry(a)
	}
	return nil
}
