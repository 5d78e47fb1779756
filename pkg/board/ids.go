package board

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces unique opaque ids for tasks and columns.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random (v4) UUID strings.
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator issues predictable ids of the form {prefix}{n}, starting
// at 1. Useful for fixtures and tests. Safe for concurrent use.
type SequenceGenerator struct {
	Prefix string
	n      atomic.Int64
}

// NewID implements IDGenerator.
func (g *SequenceGenerator) NewID() string {
	return fmt.Sprintf("%s%d", g.Prefix, g.n.Add(1))
}
