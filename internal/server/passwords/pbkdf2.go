package passwords

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gremath/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2DefaultRounds = 29000
	pbkdf2MaxRounds     = 10_000_000
	pbkdf2SaltSize      = 16
	pbkdf2KeySize       = 32
)

// pbkdf2Scheme writes passlib's pbkdf2_sha256 layout:
//
//	$pbkdf2-sha256$<rounds>$<ab64 salt>$<ab64 digest>
//
// where ab64 is unpadded standard base64 with '+' replaced by '.'.
type pbkdf2Scheme struct {
	rounds int
}

func newPBKDF2Scheme(rounds int) *pbkdf2Scheme {
	if rounds <= 0 {
		rounds = pbkdf2DefaultRounds
	}
	return &pbkdf2Scheme{rounds: rounds}
}

func (s *pbkdf2Scheme) Hash(plain string) (string, error) {
	salt, err := common.GenerateRandByteArray(pbkdf2SaltSize)
	if err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	digest := pbkdf2.Key([]byte(plain), salt, s.rounds, pbkdf2KeySize, sha256.New)
	return fmt.Sprintf("$pbkdf2-sha256$%d$%s$%s", s.rounds, ab64Encode(salt), ab64Encode(digest)), nil
}

func (s *pbkdf2Scheme) Verify(plain, encoded string) bool {
	rounds, salt, digest, ok := parsePBKDF2(encoded)
	if !ok {
		return false
	}
	candidate := pbkdf2.Key([]byte(plain), salt, rounds, len(digest), sha256.New)
	return subtle.ConstantTimeCompare(candidate, digest) == 1
}

func (s *pbkdf2Scheme) NeedsUpdate(encoded string) bool {
	rounds, _, _, ok := parsePBKDF2(encoded)
	return ok && rounds < s.rounds
}

func parsePBKDF2(encoded string) (rounds int, salt, digest []byte, ok bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[0] != "" || parts[1] != "pbkdf2-sha256" {
		return 0, nil, nil, false
	}
	rounds, err := strconv.Atoi(parts[2])
	if err != nil || rounds <= 0 || rounds > pbkdf2MaxRounds {
		return 0, nil, nil, false
	}
	salt, err = ab64Decode(parts[3])
	if err != nil {
		return 0, nil, nil, false
	}
	digest, err = ab64Decode(parts[4])
	if err != nil || len(digest) == 0 {
		return 0, nil, nil, false
	}
	return rounds, salt, digest, true
}

func ab64Encode(b []byte) string {
	return strings.ReplaceAll(base64.RawStdEncoding.EncodeToString(b), "+", ".")
}

func ab64Decode(s string) ([]byte, error) {
	return base64.RawStdEncoding.DecodeString(strings.ReplaceAll(s, ".", "+"))
}
