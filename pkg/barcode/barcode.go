// Package barcode generates EAN-13 numeric identifiers.
package barcode

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

const bodyLen = 12

var ErrMalformedBody = errors.New("body must be exactly 12 decimal digits")

// CheckDigit computes the EAN-13 check digit for a 12-digit body:
// odd positions weigh 1, even positions weigh 3, check = (10 - sum%10) % 10.
func CheckDigit(body string) (byte, error) {
	if len(body) != bodyLen {
		return 0, fmt.Errorf("body %q: %w", body, ErrMalformedBody)
	}

	var sum int
	for i := 0; i < bodyLen; i++ {
		c := body[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("body %q: %w", body, ErrMalformedBody)
		}
		d := int(c - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}

	check := (10 - sum%10) % 10
	return byte('0' + check), nil
}

// New returns a random 13-digit EAN-13 code: 12 random digits plus
// the appended check digit. Collisions against an existing inventory
// are possible and must be handled by the caller.
func New() string {
	body := make([]byte, 0, bodyLen+1)
	for range bodyLen {
		body = append(body, byte('0'+rand.IntN(10)))
	}
	check, _ := CheckDigit(string(body))
	return string(append(body, check))
}
