// Package keychain is the key item store rsakit registers normalized keys
// with before using them. Items are addressed by an application tag and a key
// class, and a store never hands back an item it was not given. Two backends
// exist: an in-memory Java KeyStore and an in-memory SQLite database.
package keychain

import (
	"errors"
	"fmt"
)

// Class distinguishes public and private key items sharing a tag.
type Class string

const (
	ClassPublic  Class = "public"
	ClassPrivate Class = "private"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

var (
	// ErrDuplicateItem is returned by Add when tag and class already exist.
	ErrDuplicateItem = errors.New("keychain: duplicate item")
	// ErrItemNotFound is returned by CopyMatching and Delete for unknown items.
	ErrItemNotFound = errors.New("keychain: item not found")
)

// Item is one key registered in a Store. Data is PKCS#1 DER.
type Item struct {
	Tag   string
	Class Class
	Data  []byte
}

// Store holds key items. Implementations are safe for concurrent use, but a
// delete/add/copy sequence on one tag is not atomic; callers serialize it.
type Store interface {
	// Add stores item, or returns ErrDuplicateItem if it already exists.
	Add(item Item) error
	// CopyMatching returns a copy of the data stored under tag and class.
	CopyMatching(tag string, class Class) ([]byte, error)
	// Delete removes the item stored under tag and class.
	Delete(tag string, class Class) error
	// Close releases the store. Items do not survive it.
	Close() error
}

// Open returns a new, empty store for the named backend.
func Open(backend string) (Store, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemStore()
	case BackendSQLite:
		return NewSQLiteStore()
	default:
		return nil, fmt.Errorf("unknown keychain backend %q", backend)
	}
}

func validateItem(item Item) error {
	if item.Tag == "" {
		return errors.New("keychain: empty tag")
	}
	if item.Class != ClassPublic && item.Class != ClassPrivate {
		return fmt.Errorf("keychain: unknown key class %q", item.Class)
	}
	if len(item.Data) == 0 {
		return errors.New("keychain: empty key data")
	}
	return nil
}
