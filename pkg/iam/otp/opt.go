// Package otp generates the secrets handed to clients during signup and login:
// six digit verification codes and opaque random tokens.
package otp

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"math/big"
	"strconv"
)

const (
	MinCode = 100000
	MaxCode = 999999
)

// Byte sizes of the opaque tokens.
const (
	SessionTokenBytes = 32
	RefreshTokenBytes = 64
)

var codeSpan = big.NewInt(MaxCode - MinCode + 1)

// GenerateCode returns a code uniformly distributed over [MinCode, MaxCode].
func GenerateCode() (int, error) {
	n, err := rand.Int(rand.Reader, codeSpan)
	if err != nil {
		return 0, ErrGenerationFailed(err)
	}
	return int(n.Int64()) + MinCode, nil
}

// Matches compares a presented code with the expected one in constant time.
func Matches(expected, presented int) bool {
	a := []byte(strconv.Itoa(expected))
	b := []byte(strconv.Itoa(presented))
	return subtle.ConstantTimeCompare(a, b) == 1
}

func randomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, ErrGenerationFailed(err)
	}
	return buf, nil
}

// GenerateSessionToken returns a URL-safe token used to key signup stages.
func GenerateSessionToken() (string, error) {
	buf, err := randomBytes(SessionTokenBytes)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateRefreshToken returns 64 random bytes in standard base64.
func GenerateRefreshToken() (string, error) {
	buf, err := randomBytes(RefreshTokenBytes)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// EqualTokens compares two opaque tokens in constant time.
func EqualTokens(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
