package password

import (
	"crypto/md5" //nolint:gosec // required by the login protocol
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// Response computes the answer to a login challenge.
//
// The password is hashed with the user's salt, then combined with the
// challenge so that neither the password nor its stored hash crosses the
// wire.
func Response(password, salt, challenge string) (string, error) {
	hashed, err := Crypt(md5Hex(password), salt)
	if err != nil {
		return "", err
	}

	withChallenge := sha256Hex(sha256Hex(hashed) + challenge)
	return base64.StdEncoding.EncodeToString(xor([]byte(withChallenge), []byte(hashed))), nil
}

// V2Hash returns the legacy password hash sent once when the server asks for
// it during login, so that the account can be migrated.
func V2Hash(password string) string {
	return md5Hex(password)
}

// xor combines a and b byte by byte over the length of the shorter one.
func xor(a, b []byte) []byte {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = a[i] ^ b[i]
	}
	return out
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
