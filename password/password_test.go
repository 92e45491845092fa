package password

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCrypt_KnownVector(t *testing.T) {
	t.Parallel()

	got, err := Crypt("rasmuslerdorf", "$2a$07$usesomesillystringforsalt$")
	require.NoError(t, err)
	require.Equal(t, "$2a$07$usesomesillystringfore2uDLvp1Ii2e./U9C8sBjqp8I90dH6hi", got)
}

func TestCrypt_MatchesBcrypt(t *testing.T) {
	t.Parallel()

	secret := md5Hex("correct horse battery staple")
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	require.NoError(t, err)

	got, err := Crypt(secret, string(hash))
	require.NoError(t, err)
	require.Equal(t, string(hash), got)
}

func TestCrypt_KeepsVariant(t *testing.T) {
	t.Parallel()

	got, err := Crypt("secret", "$2y$04$abcdefghijklmnopqrstuu")
	require.NoError(t, err)
	require.Len(t, got, 60)
	require.Equal(t, "$2y$04$", got[:7])
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte("$2a$"+got[4:]), []byte("secret")))
}

func TestCrypt_UnsupportedSalt(t *testing.T) {
	t.Parallel()

	for _, salt := range []string{
		"",
		"ab",
		"$1$saltsalt$",
		"$2z$04$abcdefghijklmnopqrstuu",
		"$2y$03$abcdefghijklmnopqrstuu",
		"$2y$xx$abcdefghijklmnopqrstuu",
		"$2y$21$abcdefghijklmnopqrstuu",
		"$2y$31$abcdefghijklmnopqrstuu",
		"$2y$04$abcdefghijklmnopqrst!u",
	} {
		_, err := Crypt("secret", salt)
		require.ErrorIs(t, err, ErrUnsupportedSalt, "salt %q", salt)
	}
}

func TestResponse(t *testing.T) {
	t.Parallel()

	salt := "$2y$04$abcdefghijklmnopqrstuu"
	got, err := Response("pw", salt, "challenge-1")
	require.NoError(t, err)

	hashed, err := Crypt(md5Hex("pw"), salt)
	require.NoError(t, err)
	first := sha256.Sum256([]byte(hashed))
	second := sha256.Sum256([]byte(hex.EncodeToString(first[:]) + "challenge-1"))
	mixed := []byte(hex.EncodeToString(second[:]))[:len(hashed)]
	for i := range mixed {
		mixed[i] ^= hashed[i]
	}
	require.Equal(t, base64.StdEncoding.EncodeToString(mixed), got)

	decoded, err := base64.StdEncoding.DecodeString(got)
	require.NoError(t, err)
	require.Len(t, decoded, 60)

	other, err := Response("pw", salt, "challenge-2")
	require.NoError(t, err)
	require.NotEqual(t, got, other)
}

func TestResponse_BadSalt(t *testing.T) {
	t.Parallel()

	_, err := Response("pw", "plain", "c")
	require.ErrorIs(t, err, ErrUnsupportedSalt)
}

func TestV2Hash(t *testing.T) {
	t.Parallel()

	require.Equal(t, "5f4dcc3b5aa765d61d8327deb882cf99", V2Hash("password"))
}
