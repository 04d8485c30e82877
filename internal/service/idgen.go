package service

import (
	"github.com/google/uuid"
)

// UUIDGenerator implements ports.IDGenerator with random UUIDv4 values.
type UUIDGenerator struct{}

// NewUUIDGenerator creates a new UUID generator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a new random UUID.
func (g *UUIDGenerator) NewID() uuid.UUID {
	return uuid.New()
}
