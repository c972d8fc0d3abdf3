package utils

import (
	"crypto/rand"
	"math/big"
)

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// GenerateRandomCode returns a random alphanumeric string of the given
// length, used for order and payment codes.
func GenerateRandomCode(length int) string {
	buf := make([]byte, length)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err) // crypto/rand failure, nothing sensible to do
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf)
}
