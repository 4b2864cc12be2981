package rsakit

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"
)

// base64LineLength is the wrap width of EncodeBase64 output.
const base64LineLength = 64

// EncodeBase64 encodes data as standard Base64, wrapped at 64 characters
// with CRLF line breaks. Empty input yields an empty string.
func EncodeBase64(data []byte) string {
	enc := base64.StdEncoding.EncodeToString(data)
	if len(enc) <= base64LineLength {
		return enc
	}

	var sb strings.Builder
	sb.Grow(len(enc) + 2*(len(enc)/base64LineLength))
	for i := 0; i < len(enc); i += base64LineLength {
		if i > 0 {
			sb.WriteString("\r\n")
		}
		sb.WriteString(enc[i:min(i+base64LineLength, len(enc))])
	}
	return sb.String()
}

// DecodeBase64 decodes standard Base64, silently skipping any character that
// is not in the Base64 alphabet (line breaks, spaces, stray punctuation).
// Trailing '=' padding is optional.
func DecodeBase64(s string) ([]byte, error) {
	filtered := strings.Map(func(r rune) rune {
		if isBase64Rune(r) {
			return r
		}
		return -1
	}, s)

	out, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(filtered, "="))
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %w", ErrDecodingFailed, err)
	}
	return out, nil
}

func isBase64Rune(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '+', r == '/', r == '=':
		return true
	default:
		return false
	}
}

// decodeUTF8 converts a decrypted payload to a string, refusing invalid UTF-8.
func decodeUTF8(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: payload is not valid UTF-8", ErrDecodingFailed)
	}
	return string(b), nil
}
