package service

import "golang.org/x/crypto/bcrypt"

// CredentialHasher derives and verifies irreversible, salted password
// hashes. Any standards-compliant scheme satisfies the contract.
type CredentialHasher interface {
	Hash(password string) (string, error)
	Verify(hashed, password string) bool
}

// bcryptHasher implements CredentialHasher with bcrypt at the default cost.
type bcryptHasher struct{}

func (bcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (bcryptHasher) Verify(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
