//nolint:gochecknoglobals
package idx

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/warncke/immutable-db/pkg/logx"
)

const (
	// idAlphabet - digits and uppercase letters, base-36 style.
	idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// idLength - fixed length of generated ids.
	idLength = 32
	// timestampLayout - microsecond precision timestamps.
	timestampLayout = "2006-01-02 15:04:05.000000"
)

// ID - a unique identifier paired with its creation timestamp.
// Ids are practically unique within a process lifetime, not
// cryptographically secure.
type ID struct {
	Id        string
	Timestamp string
}

// New - generate a new ID with the current timestamp.
func New() ID {
	return ID{
		Id:        randomId(),
		Timestamp: Now(),
	}
}

// Now - current time formatted with microsecond precision.
func Now() string {
	return time.Now().UTC().Format(timestampLayout)
}

// randomId - generate a fixed-length id from the base-36 alphabet
// using crypto/rand as the entropy source.
func randomId() string {
	buf := make([]byte, idLength)

	for {
		_, err := rand.Read(buf)
		if err == nil {
			break
		}

		logx.GetLogger().LogError(context.TODO(), "error reading random bytes for id", err)
	}

	id := make([]byte, idLength)
	for i, b := range buf {
		id[i] = idAlphabet[int(b)%len(idAlphabet)]
	}

	return string(id)
}
