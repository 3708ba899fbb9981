package pkg

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const gameIDLength = 8

// GenerateNewSessionID - returns a fresh session id for a player.
func GenerateNewSessionID() string {
	return uuid.NewString()
}

// GenerateGameID - returns a short shareable game id.
func GenerateGameID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate game id: %w", err)
	}

	return strings.ReplaceAll(id.String(), "-", "")[:gameIDLength], nil
}
