package utils

import (
	mathrand "math/rand"
	"onboarding-service/internal/pkg/constvars"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.NewString()
}

func GenerateEventID() string {
	return uuid.NewString()
}

// GenerateAuditEntryID returns a time ordered ULID so ids sort with their timestamps.
func GenerateAuditEntryID(at time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), entropy).String()
}
