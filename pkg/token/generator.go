// Package token provides code generation and hashing utilities.
package token

import (
	"crypto/rand"
	"encoding/base64"
)

// Alphabet is the character set used for redirect codes.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultCodeLength is the default redirect code length in characters.
const DefaultCodeLength = 16

// GenerateCode generates a random alphanumeric code of the default length.
func GenerateCode() (string, error) {
	return GenerateCodeWithLength(DefaultCodeLength)
}

// GenerateCodeWithLength generates a random alphanumeric code of the
// given length. Rejection sampling avoids modulo bias: len(Alphabet) is
// 62, so bytes >= 248 are discarded.
func GenerateCodeWithLength(length int) (string, error) {
	const limit = byte(len(Alphabet) * (256 / len(Alphabet))) // 248

	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, Alphabet[int(b)%len(Alphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}

// GenerateOpaque generates a Base64 RawURL encoded random string from
// the given number of random bytes. Used for request identifiers and
// other non-code opaque values.
func GenerateOpaque(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
