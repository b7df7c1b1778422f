package utils

import (
	"crypto/rand"
	"math/big"
)

// ReservationCodeAlphabet is the character set of guest-facing codes.
const ReservationCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ReservationCodeLength is the fixed length of a reservation code.
const ReservationCodeLength = 6

var alphabetSize = big.NewInt(int64(len(ReservationCodeAlphabet)))

// NewReservationCode draws ReservationCodeLength characters uniformly from
// ReservationCodeAlphabet.  Uniqueness is not guaranteed here; the store's
// unique index on reservation_code is the authority and callers retry on
// conflict.
func NewReservationCode() (string, error) {
	buf := make([]byte, ReservationCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		buf[i] = ReservationCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// IsReservationCode reports whether s has the shape of a reservation code.
func IsReservationCode(s string) bool {
	if len(s) != ReservationCodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
