package clid

import "github.com/google/uuid"

// Generator issues identifiers for entities that do not carry one yet.
type Generator interface {
	GenerateRandom(t EntityType) (ID, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(t EntityType) (ID, error)

func (f GeneratorFunc) GenerateRandom(t EntityType) (ID, error) { return f(t) }

// RandomGenerator issues version 4 UUID based CLIDs.
type RandomGenerator struct{}

// NewRandomGenerator returns a Generator backed by crypto/rand UUIDs.
func NewRandomGenerator() RandomGenerator { return RandomGenerator{} }

func (RandomGenerator) GenerateRandom(t EntityType) (ID, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return ID{}, err
	}
	return ID{Type: t, UUID: u}, nil
}
