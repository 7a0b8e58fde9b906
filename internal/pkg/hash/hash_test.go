package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword_RoundTrip(t *testing.T) {
	digest, err := Password("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", digest)

	assert.True(t, VerifyPassword("s3cret-password", digest))
	assert.False(t, VerifyPassword("wrong-password", digest))
}

func TestPassword_SaltedDigestsDiffer(t *testing.T) {
	d1, err := Password("same-input")
	require.NoError(t, err)
	d2, err := Password("same-input")
	require.NoError(t, err)
	assert.NotEqual(t, d1, d2)
}

func TestOTP_Deterministic(t *testing.T) {
	assert.Equal(t, OTP("123456"), OTP("123456"))
	assert.NotEqual(t, OTP("123456"), OTP("123457"))
	assert.Len(t, OTP("123456"), 64) // hex-encoded SHA-256
}

func TestVerifyOTP(t *testing.T) {
	digest := OTP("042817")
	assert.True(t, VerifyOTP("042817", digest))
	assert.False(t, VerifyOTP("042818", digest))
	assert.False(t, VerifyOTP("", digest))
}
