package password

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	digest, err := h.Hash("Abcdef1!")
	require.NoError(t, err)
	assert.NotEqual(t, "Abcdef1!", digest)

	assert.True(t, h.Verify("Abcdef1!", digest))
	assert.False(t, h.Verify("Abcdef1?", digest))
}

func TestBcryptHasher_SaltedPerCall(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("Abcdef1!")
	require.NoError(t, err)
	second, err := h.Hash("Abcdef1!")
	require.NoError(t, err)

	// Each digest carries its own salt, so equal inputs never
	// produce equal digests.
	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("Abcdef1!", first))
	assert.True(t, h.Verify("Abcdef1!", second))
}

func TestBcryptHasher_CostClamped(t *testing.T) {
	h := NewBcryptHasher(999)

	digest, err := h.Hash("Abcdef1!")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

// The schemes below are the historical stages this codebase moved
// through before settling on bcrypt. They exist only as test fixtures
// demonstrating why the Hasher interface hides the scheme: none of
// them survive contact with an offline attacker.

type plaintextHasher struct{}

func (plaintextHasher) Hash(p string) (string, error) { return p, nil }
func (plaintextHasher) Verify(p, d string) bool       { return p == d }

type base64Hasher struct{}

func (base64Hasher) Hash(p string) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(p)), nil
}

func (base64Hasher) Verify(p, d string) bool {
	return base64.StdEncoding.EncodeToString([]byte(p)) == d
}

type saltedMD5Hasher struct{ salt string }

func (h saltedMD5Hasher) Hash(p string) (string, error) {
	sum := md5.Sum([]byte(h.salt + p))
	return h.salt + ":" + hex.EncodeToString(sum[:]), nil
}

func (h saltedMD5Hasher) Verify(p, d string) bool {
	parts := strings.SplitN(d, ":", 2)
	if len(parts) != 2 {
		return false
	}
	sum := md5.Sum([]byte(parts[0] + p))
	return hex.EncodeToString(sum[:]) == parts[1]
}

func TestLegacySchemesSatisfyHasher(t *testing.T) {
	legacy := []Hasher{
		plaintextHasher{},
		base64Hasher{},
		saltedMD5Hasher{salt: "fixed"},
	}

	for _, h := range legacy {
		digest, err := h.Hash("Abcdef1!")
		require.NoError(t, err)
		assert.True(t, h.Verify("Abcdef1!", digest))
		assert.False(t, h.Verify("wrong", digest))
	}
}
