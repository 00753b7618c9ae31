package passwords

import (
	"golang.org/x/crypto/bcrypt"
)

type bcryptScheme struct {
	cost int
}

func newBcryptScheme(cost int) *bcryptScheme {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptScheme{cost: cost}
}

// Hash fails with bcrypt.ErrPasswordTooLong above 72 bytes.
func (s *bcryptScheme) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), s.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *bcryptScheme) Verify(plain, encoded string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plain)) == nil
}

func (s *bcryptScheme) NeedsUpdate(encoded string) bool {
	cost, err := bcrypt.Cost([]byte(encoded))
	return err == nil && cost < s.cost
}
