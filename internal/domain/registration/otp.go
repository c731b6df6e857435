package registration

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	otpMin  = 100000
	otpSpan = 900000
)

// GenerateOTP draws a uniform random integer in [100000, 999999], so the
// code is always exactly six digits with no leading-zero collapse.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+otpMin), nil
}
