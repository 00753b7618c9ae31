package passwords

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gremath/internal/common"
	"golang.org/x/crypto/argon2"
)

// Argon2Params are the argon2id cost parameters. Memory is in KiB.
type Argon2Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
}

// DefaultArgon2Params are the production argon2id parameters.
var DefaultArgon2Params = Argon2Params{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32}

const (
	argon2SaltSize  = 16
	argon2MaxMemory = 1 << 20
	argon2MaxTime   = 64
)

// argon2Scheme writes the PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<b64 salt>$<b64 key>
type argon2Scheme struct {
	params Argon2Params
}

func newArgon2Scheme(p Argon2Params) *argon2Scheme {
	return &argon2Scheme{params: p}
}

func (s *argon2Scheme) Hash(plain string) (string, error) {
	salt, err := common.GenerateRandByteArray(argon2SaltSize)
	if err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	p := s.params
	key := argon2.IDKey([]byte(plain), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

func (s *argon2Scheme) Verify(plain, encoded string) bool {
	p, salt, key, ok := parseArgon2(encoded)
	if !ok {
		return false
	}
	candidate := argon2.IDKey([]byte(plain), salt, p.Time, p.Memory, p.Threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(candidate, key) == 1
}

func (s *argon2Scheme) NeedsUpdate(encoded string) bool {
	p, _, _, ok := parseArgon2(encoded)
	if !ok {
		return false
	}
	return p.Time < s.params.Time || p.Memory < s.params.Memory
}

func parseArgon2(encoded string) (p Argon2Params, salt, key []byte, ok bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, nil, nil, false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, false
	}

	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &threads); err != nil {
		return p, nil, nil, false
	}
	if p.Time == 0 || p.Time > argon2MaxTime || p.Memory == 0 || p.Memory > argon2MaxMemory || threads == 0 || threads > 255 {
		return p, nil, nil, false
	}
	p.Threads = uint8(threads)

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, false
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, false
	}
	p.KeyLen = uint32(len(key))
	return p, salt, key, true
}
