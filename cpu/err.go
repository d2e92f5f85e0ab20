package cpu

import (
	"errors"

	"github.com/ezrec/mr2a/translate"
)

var f = translate.From

var (
	// Control unit conditions
	ErrSignalEmpty = errors.New(f("control word empty"))
	ErrHalted      = errors.New(f("halted"))
)

// ErrControl locates a control unit fault in the control store.
type ErrControl struct {
	Address     uint16
	Instruction Instruction
	Err         error
}

func (err *ErrControl) Error() string {
	return f("control address %X_%02X (ir %v) %v",
		err.Address/BLOCK_SIZE, err.Address%BLOCK_SIZE,
		translate.Hex(uint8(err.Instruction)), err.Err)
}

func (err *ErrControl) Unwrap() error {
	return err.Err
}
