package password

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/crypto/blowfish"
)

// ErrUnsupportedSalt is returned for salts that are not bcrypt salts, or
// whose cost is above MaxCost.
var ErrUnsupportedSalt = errors.New("password: unsupported salt")

// MaxCost is the highest bcrypt cost Crypt accepts. A salt is supplied by
// the server, and each step doubles the work done on the client.
const MaxCost = 20

const (
	alphabet      = "./ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	encodedSalt   = 22
	hashBytes     = 23
	maxKeyBytes   = 72
	minCost       = 4
	saltHeaderLen = 7 // "$2y$10$"
)

var (
	encoding    = base64.NewEncoding(alphabet).WithPadding(base64.NoPadding)
	magicCipher = []byte("OrpheanBeholderScryDoubt")
)

// Crypt hashes secret with a bcrypt salt string such as "$2y$10$<22 chars>",
// producing the same output as crypt(3) for that salt. Anything after the 22
// salt characters is ignored, so a full hash may be passed as the salt.
func Crypt(secret, salt string) (string, error) {
	variant, cost, rawSalt, err := parseSalt(salt)
	if err != nil {
		return "", err
	}

	key := []byte(secret)
	if len(key) >= maxKeyBytes {
		key = key[:maxKeyBytes-1]
	}
	// The terminating NUL of the C string takes part in key expansion.
	key = append(key[:len(key):len(key)], 0)

	c, err := blowfish.NewSaltedCipher(key, rawSalt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedSalt, err)
	}
	rounds := uint64(1) << cost
	for i := uint64(0); i < rounds; i++ {
		blowfish.ExpandKey(key, c)
		blowfish.ExpandKey(rawSalt, c)
	}

	data := make([]byte, len(magicCipher))
	copy(data, magicCipher)
	for i := 0; i < len(data); i += 8 {
		for j := 0; j < 64; j++ {
			c.Encrypt(data[i:i+8], data[i:i+8])
		}
	}

	return fmt.Sprintf("$2%c$%02d$%s%s",
		variant, cost, encoding.EncodeToString(rawSalt), encoding.EncodeToString(data[:hashBytes])), nil
}

func parseSalt(salt string) (variant byte, cost uint, raw []byte, err error) {
	if len(salt) < saltHeaderLen+encodedSalt || salt[0] != '$' || salt[1] != '2' || salt[3] != '$' || salt[6] != '$' {
		return 0, 0, nil, ErrUnsupportedSalt
	}
	switch salt[2] {
	case 'a', 'b', 'x', 'y':
		variant = salt[2]
	default:
		return 0, 0, nil, ErrUnsupportedSalt
	}

	n, convErr := strconv.Atoi(salt[4:6])
	if convErr != nil || n < minCost || n > MaxCost {
		return 0, 0, nil, fmt.Errorf("%w: cost %q out of range", ErrUnsupportedSalt, salt[4:6])
	}

	raw, err = decodeSalt(salt[saltHeaderLen : saltHeaderLen+encodedSalt])
	if err != nil {
		return 0, 0, nil, err
	}
	return variant, uint(n), raw, nil
}

// decodeSalt decodes 22 characters into the 16 salt bytes. The low bits of
// the last character are discarded, as crypt(3) does.
func decodeSalt(s string) ([]byte, error) {
	last := indexOf(s[encodedSalt-1])
	if last < 0 {
		return nil, ErrUnsupportedSalt
	}
	s = s[:encodedSalt-1] + string(alphabet[last&0x30])

	raw, err := encoding.DecodeString(s)
	if err != nil || len(raw) != 16 {
		return nil, ErrUnsupportedSalt
	}
	return raw, nil
}

func indexOf(b byte) int {
	for i := 0; i < len(alphabet); i++ {
		if alphabet[i] == b {
			return i
		}
	}
	return -1
}
