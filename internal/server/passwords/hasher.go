// Package passwords hashes and verifies user passwords.
//
// A stored hash is a self-describing string: a leading "$<tag>$" names the
// algorithm, the rest carries its parameters, salt and digest. Verification
// picks the algorithm from that tag, so the default can change without
// invalidating hashes already in the database. Hashes written with an older
// algorithm or weaker parameters report NeedsRehash and are upgraded on the
// next successful login.
package passwords

import (
	"strings"

	"github.com/dmitrijs2005/gremath/internal/server/config"
)

// Algorithm identifies a hashing family.
type Algorithm int

const (
	// PBKDF2SHA256 is the default. It has no input-length ceiling.
	PBKDF2SHA256 Algorithm = iota + 1
	// Bcrypt is the legacy family. It rejects inputs longer than 72 bytes.
	Bcrypt
	// Argon2id is accepted for verification and may be selected as default.
	Argon2id
)

func (a Algorithm) String() string {
	switch a {
	case PBKDF2SHA256:
		return "pbkdf2-sha256"
	case Bcrypt:
		return "bcrypt"
	case Argon2id:
		return "argon2id"
	default:
		return "unknown"
	}
}

// tags maps the identifier between the first two '$' of a hash string to
// the family that produced it.
var tags = map[string]Algorithm{
	"pbkdf2-sha256": PBKDF2SHA256,
	"2a":            Bcrypt,
	"2b":            Bcrypt,
	"2y":            Bcrypt,
	"argon2id":      Argon2id,
}

// Scheme is one hashing family.
type Scheme interface {
	Hash(plain string) (string, error)
	// Verify must return false, never panic, on malformed input.
	Verify(plain, encoded string) bool
	// NeedsUpdate reports parameters weaker than the scheme's current ones.
	NeedsUpdate(encoded string) bool
}

// Options selects the default family and the work factors.
type Options struct {
	Default      Algorithm
	BcryptCost   int
	PBKDF2Rounds int
	Argon2       Argon2Params
}

// Hasher dispatches to a Scheme by algorithm tag.
type Hasher struct {
	current Algorithm
	schemes map[Algorithm]Scheme
}

// NewHasher builds a Hasher. Zero-valued options fall back to production
// defaults.
func NewHasher(opts Options) *Hasher {
	if opts.Default == 0 {
		opts.Default = PBKDF2SHA256
	}
	if opts.Argon2 == (Argon2Params{}) {
		opts.Argon2 = DefaultArgon2Params
	}
	return &Hasher{
		current: opts.Default,
		schemes: map[Algorithm]Scheme{
			PBKDF2SHA256: newPBKDF2Scheme(opts.PBKDF2Rounds),
			Bcrypt:       newBcryptScheme(opts.BcryptCost),
			Argon2id:     newArgon2Scheme(opts.Argon2),
		},
	}
}

// NewFromConfig builds the production Hasher: PBKDF2-SHA256 by default.
func NewFromConfig(cfg *config.Config) *Hasher {
	return NewHasher(Options{
		Default:      PBKDF2SHA256,
		BcryptCost:   cfg.BcryptCost,
		PBKDF2Rounds: cfg.PBKDF2Rounds,
	})
}

// Default reports the family new hashes are written with.
func (h *Hasher) Default() Algorithm {
	return h.current
}

// Hash hashes plain with the default family.
func (h *Hasher) Hash(plain string) (string, error) {
	return h.schemes[h.current].Hash(plain)
}

// Verify checks plain against any supported hash string.
func (h *Hasher) Verify(plain, encoded string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	scheme, found := h.schemeFor(encoded)
	if !found {
		return false
	}
	return scheme.Verify(plain, encoded)
}

// NeedsRehash reports whether encoded should be replaced by a fresh hash:
// it was produced by another family or with weaker parameters. Unknown
// strings need no rehash because they never verify.
func (h *Hasher) NeedsRehash(encoded string) bool {
	alg, ok := Identify(encoded)
	if !ok {
		return false
	}
	if alg != h.current {
		return true
	}
	return h.schemes[alg].NeedsUpdate(encoded)
}

func (h *Hasher) schemeFor(encoded string) (Scheme, bool) {
	alg, ok := Identify(encoded)
	if !ok {
		return nil, false
	}
	scheme, ok := h.schemes[alg]
	return scheme, ok
}

// Identify reads the algorithm tag of a hash string.
func Identify(encoded string) (Algorithm, bool) {
	rest, ok := strings.CutPrefix(encoded, "$")
	if !ok {
		return 0, false
	}
	tag, _, ok := strings.Cut(rest, "$")
	if !ok {
		return 0, false
	}
	alg, ok := tags[tag]
	return alg, ok
}
