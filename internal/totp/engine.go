// Package totp issues and validates time-based one-time-password credentials
// used as the identity proof for check-in/out actions.
package totp

import (
	"bytes"
	"fmt"
	"image/png"
	"net/url"
	"time"

	"github.com/pquerna/otp"
	totplib "github.com/pquerna/otp/totp"
)

const (
	// period is the TOTP time step in seconds.
	period = 30
	// skew is the number of adjacent time steps accepted on each side of now,
	// to tolerate bounded clock drift between server and authenticator.
	skew = 1
	// secretSize is the raw secret length in bytes before base32 encoding.
	secretSize = 20
)

// Engine issues and checks TOTP credentials for a fixed issuer name.
type Engine struct {
	issuer string
}

// New creates an Engine. issuer is the name authenticator apps display.
func New(issuer string) *Engine {
	return &Engine{issuer: issuer}
}

// GenerateSecret returns a fresh base32-encoded secret for the given account.
// It fails only when the system entropy source is unavailable, which is fatal
// and not retryable.
func (e *Engine) GenerateSecret(accountName string) (string, error) {
	key, err := totplib.Generate(totplib.GenerateOpts{
		Issuer:      e.issuer,
		AccountName: accountName,
		SecretSize:  secretSize,
	})
	if err != nil {
		return "", fmt.Errorf("generate totp secret: %w", err)
	}
	return key.Secret(), nil
}

// ProvisioningURI builds the standard otpauth URL for importing the secret
// into any compliant authenticator app. The employee ID is percent-encoded so
// reserved URI characters in an ID cannot corrupt the URL.
func (e *Engine) ProvisioningURI(employeeID, secret string) string {
	return fmt.Sprintf("otpauth://totp/%s:%s?secret=%s&issuer=%s",
		url.PathEscape(e.issuer),
		url.PathEscape(employeeID),
		secret,
		url.QueryEscape(e.issuer),
	)
}

// QRCode renders the provisioning URI as a size x size PNG for scanning.
func (e *Engine) QRCode(employeeID, secret string, size int) ([]byte, error) {
	key, err := otp.NewKeyFromURL(e.ProvisioningURI(employeeID, secret))
	if err != nil {
		return nil, fmt.Errorf("parse provisioning url: %w", err)
	}

	img, err := key.Image(size, size)
	if err != nil {
		return nil, fmt.Errorf("render qr code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode qr png: %w", err)
	}
	return buf.Bytes(), nil
}

// Validate reports whether code is valid for secret at the given time,
// accepting one time step of skew on each side. Empty, non-numeric, or
// wrong-length codes are rejected with a plain false. The comparison inside
// the library is constant-time; the secret is never logged or returned.
func (e *Engine) Validate(code, secret string, now time.Time) bool {
	ok, err := totplib.ValidateCustom(code, secret, now, totplib.ValidateOpts{
		Period:    period,
		Skew:      skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return ok
}
