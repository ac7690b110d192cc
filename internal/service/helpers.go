package service

import "github.com/google/uuid"

// shortID keeps codes readable while staying tied to the source record.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func shortRandom() string {
	return uuid.NewString()[:8]
}
