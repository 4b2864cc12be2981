package rsakit

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/sensiblebit/rsakit/internal/keychain"
)

const registryStripes = 64

// registry registers PKCS#1 key bytes in a keychain store and materializes
// Keys from what the store hands back.
type registry struct {
	store    keychain.Store
	appTag   string
	strategy string
	retain   bool
	log      *slog.Logger

	// locks serialize the delete/add/copy sequence per tag.
	locks [registryStripes]sync.Mutex
}

func keyClass(role KeyRole) keychain.Class {
	if role == RolePrivate {
		return keychain.ClassPrivate
	}
	return keychain.ClassPublic
}

// tagFor returns the keychain tag for der under the configured strategy.
func (r *registry) tagFor(role KeyRole, der []byte) string {
	if r.strategy == TagStrategyRandom {
		return r.appTag + "." + role.String() + "." + uuid.NewString()
	}
	sum := sha256.Sum256(der)
	return r.appTag + "." + role.String() + "." + hex.EncodeToString(sum[:8])
}

func (r *registry) lockFor(tag string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(tag))
	return &r.locks[h.Sum32()%registryStripes]
}

// materialize validates der, registers it and returns a Key built from the
// registered copy. Unless retain is set the item is removed again before
// returning.
func (r *registry) materialize(role KeyRole, der []byte) (*Key, error) {
	if _, err := newKey(role, der, ""); err != nil {
		return nil, err
	}

	tag := r.tagFor(role, der)
	class := keyClass(role)

	mu := r.lockFor(tag)
	mu.Lock()
	defer mu.Unlock()

	if err := r.store.Delete(tag, class); err != nil && !errors.Is(err, keychain.ErrItemNotFound) {
		return nil, fmt.Errorf("%w: clearing %s: %w", ErrKeyRegistrationFailed, tag, err)
	}
	if err := r.store.Add(keychain.Item{Tag: tag, Class: class, Data: der}); err != nil && !errors.Is(err, keychain.ErrDuplicateItem) {
		return nil, fmt.Errorf("%w: adding %s: %w", ErrKeyRegistrationFailed, tag, err)
	}
	stored, err := r.store.CopyMatching(tag, class)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %w", ErrKeyRegistrationFailed, tag, err)
	}

	key, err := newKey(role, stored, tag)
	if err != nil {
		return nil, err
	}

	if !r.retain {
		if err := r.store.Delete(tag, class); err != nil && !errors.Is(err, keychain.ErrItemNotFound) {
			r.log.Warn("removing registered key", "tag", tag, "error", err)
		}
	}
	r.log.Debug("registered key", "tag", tag, "role", role.String(), "retained", r.retain)
	return key, nil
}
