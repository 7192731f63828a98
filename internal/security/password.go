package security

import "golang.org/x/crypto/bcrypt"

// Cost matches the fixture tooling so seeded and signed-up credentials
// verify the same way.
const Cost = 10

// HashPassword derives a one-way bcrypt hash from a plaintext password.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
