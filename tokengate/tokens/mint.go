package tokens

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

const mintAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Mint generates a token string of the form ROLE-XXXX-YYYYMMDD where XXXX is
// drawn from crypto/rand. Uniqueness is probabilistic: two tokens minted for
// the same role on the same day collide with probability 36^-4 (~1 in 1.68M),
// which is accepted rather than checked against the token collection.
func Mint(role string, now time.Time) (string, error) {
	// 252 is the largest multiple of len(mintAlphabet) that fits in a byte;
	// bytes at or above it are redrawn so no character is over-represented.
	const rejectAbove = byte(252)

	random := make([]byte, 4)
	buf := make([]byte, 1)
	for i := 0; i < len(random); {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		if buf[0] >= rejectAbove {
			continue
		}
		random[i] = mintAlphabet[int(buf[0])%len(mintAlphabet)]
		i++
	}

	prefix := strings.ToUpper(strings.ReplaceAll(role, " ", ""))
	return fmt.Sprintf("%s-%s-%s", prefix, random, now.UTC().Format("20060102")), nil
}
