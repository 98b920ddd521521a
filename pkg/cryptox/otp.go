package cryptox

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"

	"github.com/pquerna/otp/hotp"
)

// otpSecretLength is the raw secret size fed into the HOTP derivation.
// 20 bytes encodes to exactly 32 base32 characters with no padding.
const otpSecretLength = 20

// GenerateOTPCode returns a 6-digit numeric one-time code.
//
// The code is the RFC 4226 HOTP of a freshly generated random secret at
// counter zero, which yields a uniformly distributed numeric string. The
// secret is discarded; the code itself is what gets stored and compared.
func GenerateOTPCode() (string, error) {
	raw := make([]byte, otpSecretLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate otp secret: %w", err)
	}
	secret := base32.StdEncoding.EncodeToString(raw)

	code, err := hotp.GenerateCode(secret, 0)
	if err != nil {
		return "", fmt.Errorf("failed to derive otp code: %w", err)
	}
	return code, nil
}
