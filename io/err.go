package io

import (
	"github.com/ezrec/mr2a/translate"
)

var f = translate.From

// ErrRamOverflow is returned when data does not fit into RAM.
type ErrRamOverflow struct {
	Size int
}

func (err *ErrRamOverflow) Error() string {
	return f("%d bytes exceed RAM of %d bytes", err.Size, RAM_SIZE)
}
