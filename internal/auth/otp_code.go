package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// OTP digit widths per flow. Client registration uses 4-digit codes and the
// admin password reset uses 6-digit codes.
const (
	OTPWidthRegistration = 4
	OTPWidthAdminReset   = 6
)

// GenerateOTPCode returns a uniformly random numeric code with exactly
// width digits (no leading zero), e.g. width 4 yields [1000,9999].
func GenerateOTPCode(width int) (string, error) {
	if width < 1 {
		return "", fmt.Errorf("generate otp: invalid width %d", width)
	}
	min := int64(1)
	for i := 1; i < width; i++ {
		min *= 10
	}
	span := min*10 - min
	n, err := rand.Int(rand.Reader, big.NewInt(span))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%d", min+n.Int64()), nil
}
