package utils

import "math/rand"

// GenerateRandomToken builds an alphanumeric code, e.g. for password resets.
func GenerateRandomToken(rng *rand.Rand, length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	token := make([]byte, length)
	for i := range token {
		token[i] = charset[rng.Intn(len(charset))]
	}
	return string(token)
}
