package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyDataset means no usable deliveries remained after parsing. The
// pipeline cannot build a store from nothing; the input file needs fixing.
var ErrEmptyDataset = errors.New("no usable deliveries in dataset")

// MalformedInputError reports required columns absent from the source log.
type MalformedInputError struct {
	Missing []string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: missing required columns %s", strings.Join(e.Missing, ", "))
}

// PlayerNotFoundError reports a profile lookup for a key with zero records.
type PlayerNotFoundError struct {
	Player string
}

func (e *PlayerNotFoundError) Error() string {
	return fmt.Sprintf("no records for player %q", e.Player)
}
