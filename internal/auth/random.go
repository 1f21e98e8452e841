package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strconv"

	"github.com/yasinhessnawi1/chatbridge/internal/constants"
)

// randomInRange returns a uniformly distributed integer in [min, max].
func randomInRange(min, max int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return 0, fmt.Errorf("failed to read random number: %w", err)
	}
	return min + n.Int64(), nil
}

// GenerateResetCode returns a six digit verification code.
func GenerateResetCode() (string, error) {
	n, err := randomInRange(constants.ResetCodeMin, constants.ResetCodeMax)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n, 10), nil
}

// GenerateChatID returns a ten digit conversation identifier.
func GenerateChatID() (string, error) {
	n, err := randomInRange(constants.ChatIDMin, constants.ChatIDMax)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n, 10), nil
}

// CodesEqual compares two codes in constant time.
func CodesEqual(expected, submitted string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) == 1
}
