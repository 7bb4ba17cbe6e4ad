package hash

import "golang.org/x/crypto/bcrypt"

// dummyHash is compared against when the account does not exist, so a
// failed login costs the same whether or not the identifier is known.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("museofile-dummy-password"), bcrypt.DefaultCost)

func HashPassword(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashbytes), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// BurnCompare runs a bcrypt comparison whose result is thrown away.
func BurnCompare(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
