package security

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/mealmate/mealmate-api/internal/application/auth"
)

const (
	totpPeriod = 30 // seconds per time step
	totpDigits = otp.DigitsSix

	// 20 bytes of secret, 160 bits of entropy.
	totpSecretSize = 20

	qrSizePx = 200
)

// TOTPProvider issues shared secrets and verifies time-based codes.
type TOTPProvider struct {
	issuer string
}

func NewTOTPProvider(issuer string) *TOTPProvider {
	if issuer == "" {
		issuer = "MealMate"
	}
	return &TOTPProvider{issuer: issuer}
}

// GenerateSecret creates a fresh random secret for account and returns
// the base32 form, the otpauth provisioning URI, and the enrollment QR
// rendered as a PNG data URL.
func (p *TOTPProvider) GenerateSecret(account string) (auth.Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      p.issuer,
		AccountName: account,
		SecretSize:  totpSecretSize,
		Period:      totpPeriod,
		Digits:      totpDigits,
	})
	if err != nil {
		return auth.Enrollment{}, err
	}

	img, err := key.Image(qrSizePx, qrSizePx)
	if err != nil {
		return auth.Enrollment{}, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return auth.Enrollment{}, err
	}

	return auth.Enrollment{
		Base32:    key.Secret(),
		URL:       key.URL(),
		QRDataURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// VerifyCode checks code against secret, accepting up to window time
// steps of clock drift on each side. Non-numeric or wrong-length codes
// fail without error; the underlying comparison is constant-time.
func (p *TOTPProvider) VerifyCode(secret, code string, window uint) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period: totpPeriod,
		Skew:   window,
		Digits: totpDigits,
	})
	if err != nil {
		return false
	}
	return ok
}
