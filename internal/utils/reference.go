package utils

import (
	"crypto/rand"
	"math/big"
)

const (
	referenceAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	referenceLength   = 9
)

// NewReference returns a random booking reference such as "K3F9QZ0AB".
// References are for display only and are not guaranteed to be unique.
func NewReference() string {
	max := big.NewInt(int64(len(referenceAlphabet)))
	buf := make([]byte, referenceLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		buf[i] = referenceAlphabet[n.Int64()]
	}
	return string(buf)
}
