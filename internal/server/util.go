package server

import (
	"crypto/rand"

	"github.com/google/uuid"
)

// newJoinCode returns a player's secret code. The alphabet drops easily
// confused characters.
func newJoinCode() string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "AAAAAA"
	}
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(buf)
}

func newGameID() string {
	return uuid.NewString()
}

func newPlayerID() string {
	return uuid.NewString()
}
