package store

import (
	nanoid "github.com/jaevor/go-nanoid"
)

const (
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	// IDLength is the length of generated task and tag ids
	IDLength = 9
)

// NewIDGenerator returns a generator of random lowercase alphanumeric ids.
// Ids are unique in practice within a session, nothing more.
func NewIDGenerator() func() string {
	gen, err := nanoid.CustomASCII(idAlphabet, IDLength)
	if err != nil {
		// alphabet and length are constants
		panic(err)
	}
	return gen
}
