// Package id provides identifier generation for the LCMP.
//
// Context IDs are random 128-bit UUIDs rendered as 32 lowercase hex
// characters, which fits the 32 character ceiling of contextId. Application
// instance IDs and request IDs are ULIDs, so they sort by creation time in
// logs.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// RequestID identifies an API request
type RequestID string

// ID prefixes
const (
	InstancePrefix = "inst"
	RequestPrefix  = "req"
	DevAppPrefix   = "dev"
)

// Issuer hands out the identifiers assigned by the context store.
type Issuer interface {
	ContextID() string
	AppInstanceID() string
}

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator
func NewGenerator() *Generator {
	return &Generator{
		entropy: rand.Reader,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// ContextID returns a fresh random UUID as 32 hex characters.
func (g *Generator) ContextID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// AppInstanceID returns a fresh prefixed ULID.
func (g *Generator) AppInstanceID() string {
	return g.GenerateWithPrefix(InstancePrefix)
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

func (id RequestID) String() string { return string(id) }
