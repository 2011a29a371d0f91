package auth

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	base36Alphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"
	sessionSuffixChars = 8
)

// NewSessionToken returns base36(unix millis) + "-" + 8 random base36 characters.
// It identifies a session record; it is not a credential and carries no security guarantee.
func NewSessionToken(now time.Time) (string, error) {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 36))
	b.WriteByte('-')

	limit := big.NewInt(int64(len(base36Alphabet)))
	for i := 0; i < sessionSuffixChars; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(base36Alphabet[n.Int64()])
	}
	return b.String(), nil
}
