package security

import (
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
)

func TestTOTPProvider_GenerateSecret_Enrollment(t *testing.T) {
	t.Parallel()

	p := NewTOTPProvider("MealMate")
	enr, err := p.GenerateSecret("a@b.com")
	if err != nil {
		t.Fatalf("generate err: %v", err)
	}

	if enr.Base32 == "" {
		t.Fatalf("expected base32 secret")
	}
	if !strings.HasPrefix(enr.URL, "otpauth://totp/") {
		t.Fatalf("unexpected provisioning URL: %q", enr.URL)
	}
	if !strings.Contains(enr.URL, "MealMate") {
		t.Fatalf("expected issuer in URL: %q", enr.URL)
	}
	if !strings.HasPrefix(enr.QRDataURL, "data:image/png;base64,") {
		t.Fatalf("expected PNG data URL, got prefix %q", enr.QRDataURL[:min(40, len(enr.QRDataURL))])
	}
}

func TestTOTPProvider_GenerateSecret_FreshEachCall(t *testing.T) {
	t.Parallel()

	p := NewTOTPProvider("MealMate")
	a, err := p.GenerateSecret("a@b.com")
	if err != nil {
		t.Fatalf("generate err: %v", err)
	}
	b, err := p.GenerateSecret("a@b.com")
	if err != nil {
		t.Fatalf("generate err: %v", err)
	}
	if a.Base32 == b.Base32 {
		t.Fatalf("expected distinct secrets")
	}
}

func TestTOTPProvider_VerifyCode_CurrentCode(t *testing.T) {
	t.Parallel()

	p := NewTOTPProvider("MealMate")
	enr, err := p.GenerateSecret("a@b.com")
	if err != nil {
		t.Fatalf("generate err: %v", err)
	}

	code, err := totp.GenerateCode(enr.Base32, time.Now().UTC())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}

	if !p.VerifyCode(enr.Base32, code, 1) {
		t.Fatalf("current code rejected")
	}
}

// With window=1 a code from the adjacent 30s step still verifies, but
// two steps away it does not.
func TestTOTPProvider_VerifyCode_DriftWindow(t *testing.T) {
	t.Parallel()

	p := NewTOTPProvider("MealMate")
	enr, err := p.GenerateSecret("a@b.com")
	if err != nil {
		t.Fatalf("generate err: %v", err)
	}

	now := time.Now().UTC()
	// Crossing a step boundary mid-test would shift the offsets; wait it
	// out when we start too close to one.
	if into := now.Unix() % totpPeriod; into >= totpPeriod-2 {
		time.Sleep(time.Duration(totpPeriod-into+1) * time.Second)
		now = time.Now().UTC()
	}

	for _, offset := range []time.Duration{-30 * time.Second, 30 * time.Second} {
		code, err := totp.GenerateCode(enr.Base32, now.Add(offset))
		if err != nil {
			t.Fatalf("generate code: %v", err)
		}
		if !p.VerifyCode(enr.Base32, code, 1) {
			t.Fatalf("code at offset %v rejected", offset)
		}
	}

	for _, offset := range []time.Duration{-60 * time.Second, 60 * time.Second} {
		code, err := totp.GenerateCode(enr.Base32, now.Add(offset))
		if err != nil {
			t.Fatalf("generate code: %v", err)
		}
		if p.VerifyCode(enr.Base32, code, 1) {
			t.Fatalf("code at offset %v accepted", offset)
		}
	}
}

func TestTOTPProvider_VerifyCode_Malformed(t *testing.T) {
	t.Parallel()

	p := NewTOTPProvider("MealMate")
	enr, err := p.GenerateSecret("a@b.com")
	if err != nil {
		t.Fatalf("generate err: %v", err)
	}

	for _, code := range []string{"", "12345", "1234567", "abcdef"} {
		if p.VerifyCode(enr.Base32, code, 1) {
			t.Fatalf("malformed code %q accepted", code)
		}
	}
}
