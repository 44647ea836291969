package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateResourceID generates a unique resource ID
func GenerateResourceID() string {
	return GenerateID("res")
}

// GenerateGroupID generates a unique group ID
func GenerateGroupID() string {
	return GenerateID("grp")
}

// GenerateUserID generates a unique user ID
func GenerateUserID() string {
	return GenerateID("user")
}

// GenerateID generates a prefixed UUID-based ID
func GenerateID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, strings.ReplaceAll(uuid.New().String(), "-", ""))
}

// GenerateAccessCode generates an opaque access code value. Shorter
// than a UUID so it can be read over the phone, long enough to resist
// guessing.
func GenerateAccessCode() string {
	b := make([]byte, 10)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// GenerateRequestID generates a unique request ID
func GenerateRequestID() string {
	timestamp := time.Now().UnixNano()
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("req_%d_%s", timestamp, hex.EncodeToString(b))
}
