package service

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	orderNumberPrefix = "PED"
	// maxOrderNumberAttempts bounds the retries on a unique index collision
	maxOrderNumberAttempts = 5
)

// OrderNumberFunc returns a candidate order number for an order placed at t
type OrderNumberFunc func(t time.Time) (string, error)

// NewOrderNumber builds PED-YYMMDD-XXXXXX, where the suffix is random
// Crockford base32 taken from a ULID's entropy.
func NewOrderNumber(t time.Time) (string, error) {
	id, err := ulid.New(ulid.Timestamp(t), rand.Reader)
	if err != nil {
		return "", err
	}
	s := id.String()
	return fmt.Sprintf("%s-%s-%s", orderNumberPrefix, t.Format("060102"), s[len(s)-6:]), nil
}
