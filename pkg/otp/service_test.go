package otp

import (
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xlzd/gotp"
)

func TestGenerateSecret(t *testing.T) {
	svc := NewService()

	secret, err := svc.GenerateSecret("alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, secret)

	other, err := svc.GenerateSecret("alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, secret, other, "secrets must be unique per call")
}

func TestGenerateAndValidatePasscode(t *testing.T) {
	svc := NewService()

	secret, err := svc.GenerateSecret("bob@example.com")
	require.NoError(t, err)

	code, err := svc.GeneratePasscode(secret)
	require.NoError(t, err)
	assert.Len(t, code, 6)

	valid, err := svc.ValidatePasscode(secret, code)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestValidatePasscode_CrossImplementation(t *testing.T) {
	// A code derived by an independent TOTP implementation from the
	// same secret must validate.
	svc := NewService()

	secret, err := svc.GenerateSecret("carol@example.com")
	require.NoError(t, err)

	code := gotp.NewDefaultTOTP(secret).Now()

	valid, err := svc.ValidatePasscode(secret, code)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestValidatePasscode_WithinSkewWindow(t *testing.T) {
	svc := NewService(WithPeriod(30), WithSkew(2))

	secret, err := svc.GenerateSecret("dave@example.com")
	require.NoError(t, err)

	// A code from two steps ago is still inside the window.
	past := time.Now().UTC().Add(-60 * time.Second)
	code, err := totp.GenerateCodeCustom(secret, past, totp.ValidateOpts{
		Period:    30,
		Skew:      2,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	require.NoError(t, err)

	valid, err := svc.ValidatePasscode(secret, code)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestValidatePasscode_OutsideSkewWindow(t *testing.T) {
	svc := NewService(WithPeriod(30), WithSkew(2))

	secret, err := svc.GenerateSecret("eve@example.com")
	require.NoError(t, err)

	// Five steps back is well outside skew 2.
	past := time.Now().UTC().Add(-150 * time.Second)
	code, err := totp.GenerateCodeCustom(secret, past, totp.ValidateOpts{
		Period:    30,
		Skew:      0,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	require.NoError(t, err)

	valid, err := svc.ValidatePasscode(secret, code)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestValidatePasscode_WrongCode(t *testing.T) {
	svc := NewService()

	secret, err := svc.GenerateSecret("frank@example.com")
	require.NoError(t, err)

	valid, err := svc.ValidatePasscode(secret, "000000")
	require.NoError(t, err)
	assert.False(t, valid)
}
