package rsakit

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"
	"math/big"
)

// KeyRole says which half of an RSA key pair a key source holds.
type KeyRole int

const (
	// RolePublic is an RSA public key (modulus and public exponent).
	RolePublic KeyRole = iota
	// RolePrivate is an RSA private key.
	RolePrivate
)

// String returns "public" or "private".
func (r KeyRole) String() string {
	switch r {
	case RolePublic:
		return "public"
	case RolePrivate:
		return "private"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Key is a normalized RSA key ready for the block engine. A Key is immutable
// once built and may be shared between goroutines and reused across calls.
type Key struct {
	role      KeyRole
	pub       *rsa.PublicKey
	priv      *rsa.PrivateKey
	blockSize int
	tag       string
}

// newKey builds a Key from PKCS#1 DER for the given role.
func newKey(role KeyRole, der []byte, tag string) (*Key, error) {
	k := &Key{role: role, tag: tag}
	switch role {
	case RolePublic:
		pub, err := x509.ParsePKCS1PublicKey(der)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing PKCS#1 public key: %w", ErrMalformedKey, err)
		}
		k.pub = pub
	case RolePrivate:
		priv, err := x509.ParsePKCS1PrivateKey(der)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing PKCS#1 private key: %w", ErrMalformedKey, err)
		}
		k.priv = priv
		k.pub = &priv.PublicKey
	default:
		return nil, fmt.Errorf("unknown key role %d", int(role))
	}
	k.blockSize = (k.pub.N.BitLen() + 7) / 8
	return k, nil
}

// Role returns whether the key is public or private.
func (k *Key) Role() KeyRole { return k.role }

// BlockSize returns the modulus size in bytes, ceil(bits/8).
func (k *Key) BlockSize() int { return k.blockSize }

// Bits returns the modulus bit length.
func (k *Key) Bits() int { return k.pub.N.BitLen() }

// Tag returns the keychain tag the key was registered under.
func (k *Key) Tag() string { return k.tag }

// PublicKey returns the RSA public key. For a private key this is its public half.
func (k *Key) PublicKey() *rsa.PublicKey { return k.pub }

var errPublicKeyCannotSign = errors.New("raw signing requires a private key")

// TransformBlock implements BlockKey.
func (k *Key) TransformBlock(block []byte, mode Mode) ([]byte, error) {
	switch mode {
	case ModeEncrypt:
		return rsa.EncryptPKCS1v15(rand.Reader, k.pub, block)
	case ModeSignRaw:
		if k.priv == nil {
			return nil, errPublicKeyCannotSign
		}
		// A zero hash signs the chunk itself under type 1 padding.
		return rsa.SignPKCS1v15(nil, k.priv, crypto.Hash(0), block)
	case ModeDecrypt:
		return k.rawDecrypt(block)
	default:
		return nil, fmt.Errorf("unknown mode %d", int(mode))
	}
}

// rawDecrypt applies the key's exponent to one ciphertext block without
// touching the padding. Private keys use the private exponent, public keys
// the public exponent (recovering data raw-signed by the matching private key).
func (k *Key) rawDecrypt(block []byte) ([]byte, error) {
	if len(block) != k.blockSize {
		return nil, fmt.Errorf("ciphertext block is %d bytes, want %d", len(block), k.blockSize)
	}
	c := new(big.Int).SetBytes(block)
	if c.Cmp(k.pub.N) >= 0 {
		return nil, errors.New("ciphertext block is out of range for the modulus")
	}

	var m *big.Int
	if k.priv != nil {
		var err error
		m, err = blindedExp(k.priv, c)
		if err != nil {
			return nil, err
		}
	} else {
		m = new(big.Int).Exp(c, big.NewInt(int64(k.pub.E)), k.pub.N)
	}
	return m.FillBytes(make([]byte, k.blockSize)), nil
}

// blindedExp computes c^d mod n with RSA blinding so the exponentiation time
// does not depend on the attacker-chosen ciphertext.
func blindedExp(priv *rsa.PrivateKey, c *big.Int) (*big.Int, error) {
	n := priv.N
	e := big.NewInt(int64(priv.E))

	var r, rInv *big.Int
	for {
		var err error
		r, err = rand.Int(rand.Reader, n)
		if err != nil {
			return nil, fmt.Errorf("generating blinding factor: %w", err)
		}
		if r.Sign() == 0 {
			continue
		}
		if rInv = new(big.Int).ModInverse(r, n); rInv != nil {
			break
		}
	}

	blinded := new(big.Int).Exp(r, e, n)
	blinded.Mul(blinded, c)
	blinded.Mod(blinded, n)

	m := new(big.Int).Exp(blinded, priv.D, n)
	m.Mul(m, rInv)
	m.Mod(m, n)
	return m, nil
}
