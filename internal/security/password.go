package security

import "golang.org/x/crypto/bcrypt"

// PasswordCost is the fixed bcrypt work factor used at registration.
const PasswordCost = 10

func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
}

func VerifyPassword(password string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
