package rsakit

import (
	"bytes"
	"errors"
	"fmt"
)

// Mode selects the RSA primitive applied to each block.
type Mode int

const (
	// ModeEncrypt pads each chunk with PKCS#1 v1.5 type 2 and applies the
	// public exponent.
	ModeEncrypt Mode = iota
	// ModeDecrypt applies the raw key operation to each block and removes
	// PKCS#1 v1.5 padding of either type.
	ModeDecrypt
	// ModeSignRaw pads each chunk with PKCS#1 v1.5 type 1 and applies the
	// private exponent ("private key encryption").
	ModeSignRaw
)

// String returns the mode name used in log output.
func (m Mode) String() string {
	switch m {
	case ModeEncrypt:
		return "encrypt"
	case ModeDecrypt:
		return "decrypt"
	case ModeSignRaw:
		return "sign-raw"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// pkcs1Overhead is the number of bytes PKCS#1 v1.5 padding adds to a block:
// the 00 0X marker, at least 8 padding bytes and the 00 delimiter.
const pkcs1Overhead = 11

// minPaddingLen is the minimum PKCS#1 v1.5 padding string length.
const minPaddingLen = 8

// BlockKey is the capability the engine needs from a key: its RSA block size
// and a single-block transform. *Key implements it.
type BlockKey interface {
	// BlockSize returns the modulus size in bytes.
	BlockSize() int
	// TransformBlock applies mode to one block. For ModeEncrypt and
	// ModeSignRaw the input is at most BlockSize()-11 bytes and the output
	// must be exactly BlockSize() bytes. For ModeDecrypt the input is one
	// BlockSize() ciphertext block and the output is the raw, still padded,
	// BlockSize() result.
	TransformBlock(block []byte, mode Mode) ([]byte, error)
}

// Transform runs payload through key block by block. Payloads longer than one
// block are split into BlockSize()-11 byte chunks for ModeEncrypt and
// ModeSignRaw, and into BlockSize() byte blocks for ModeDecrypt. A failure in
// any block fails the whole call and no partial result is returned.
func Transform(payload []byte, key BlockKey, mode Mode) ([]byte, error) {
	switch mode {
	case ModeEncrypt, ModeSignRaw:
		return sealBlocks(payload, key, mode)
	case ModeDecrypt:
		return openBlocks(payload, key)
	default:
		return nil, fmt.Errorf("unknown mode %d", int(mode))
	}
}

func sealBlocks(payload []byte, key BlockKey, mode Mode) ([]byte, error) {
	blockSize := key.BlockSize()
	chunkSize := blockSize - pkcs1Overhead
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: block size %d leaves no room for PKCS#1 v1.5 padding", ErrEncryptionFailed, blockSize)
	}

	blocks := (len(payload) + chunkSize - 1) / chunkSize
	out := make([]byte, 0, blocks*blockSize)
	for i := 0; i < len(payload); i += chunkSize {
		end := min(i+chunkSize, len(payload))
		sealed, err := key.TransformBlock(payload[i:end], mode)
		if err != nil {
			return nil, fmt.Errorf("%w: block %d: %w", ErrEncryptionFailed, i/chunkSize, err)
		}
		if len(sealed) != blockSize {
			return nil, fmt.Errorf("%w: block %d produced %d bytes, want %d", ErrEncryptionFailed, i/chunkSize, len(sealed), blockSize)
		}
		out = append(out, sealed...)
	}
	return out, nil
}

func openBlocks(ciphertext []byte, key BlockKey) ([]byte, error) {
	blockSize := key.BlockSize()
	if blockSize <= pkcs1Overhead {
		return nil, fmt.Errorf("%w: block size %d leaves no room for PKCS#1 v1.5 padding", ErrDecryptionFailed, blockSize)
	}
	if len(ciphertext)%blockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d is not a multiple of the %d-byte block size", ErrDecryptionFailed, len(ciphertext), blockSize)
	}

	out := make([]byte, 0, len(ciphertext))
	for i := 0; i < len(ciphertext); i += blockSize {
		raw, err := key.TransformBlock(ciphertext[i:i+blockSize], ModeDecrypt)
		if err != nil {
			return nil, fmt.Errorf("%w: block %d: %w", ErrDecryptionFailed, i/blockSize, err)
		}
		if len(raw) != blockSize {
			return nil, fmt.Errorf("%w: block %d produced %d bytes, want %d", ErrDecryptionFailed, i/blockSize, len(raw), blockSize)
		}
		plain, err := unpadPKCS1(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: block %d: %w", ErrDecryptionFailed, i/blockSize, err)
		}
		out = append(out, plain...)
	}
	return out, nil
}

// unpadPKCS1 removes PKCS#1 v1.5 padding from a raw decrypted block
//
//	00 BT PS... 00 D...
//
// and returns D, the bytes after the second zero byte. BT must be 01 (PS all
// FF) or 02 (PS non-zero); PS must be at least 8 bytes.
func unpadPKCS1(block []byte) ([]byte, error) {
	first := bytes.IndexByte(block, 0)
	if first < 0 {
		return nil, errors.New("no zero byte in decrypted block")
	}
	if first != 0 || len(block) < pkcs1Overhead {
		return nil, errors.New("decrypted block does not start with a PKCS#1 marker")
	}

	blockType := block[1]
	if blockType != 0x01 && blockType != 0x02 {
		return nil, fmt.Errorf("unknown PKCS#1 block type %#02x", blockType)
	}

	second := bytes.IndexByte(block[2:], 0)
	if second < 0 {
		return nil, errors.New("PKCS#1 padding has no delimiter")
	}
	if second < minPaddingLen {
		return nil, fmt.Errorf("PKCS#1 padding is %d bytes, want at least %d", second, minPaddingLen)
	}

	if blockType == 0x01 {
		for _, b := range block[2 : 2+second] {
			if b != 0xFF {
				return nil, errors.New("PKCS#1 type 1 padding is not all 0xFF")
			}
		}
	}
	return block[2+second+1:], nil
}
