package emulator

import (
	"errors"

	"github.com/ezrec/mr2a/translate"
)

var f = translate.From

var (
	// Scenario errors
	ErrScenarioType  = errors.New(f("wrong type"))
	ErrScenarioRange = errors.New(f("value out of range"))
	ErrScenarioName  = errors.New(f("unknown name"))

	// Machine errors
	ErrTriggerLimit = errors.New(f("no instruction retired within the trigger cycle limit"))
)

// ErrImage indicates an invalid program image.
type ErrImage struct {
	LineNo int
	Err    error
}

func (err *ErrImage) Error() string {
	if err.LineNo == 0 {
		return f("image: %v", err.Err)
	}
	return f("image: line %d %v", err.LineNo, err.Err)
}

func (err *ErrImage) Unwrap() error {
	return err.Err
}

// ErrImageSyntax is a word of an image that is not a hex byte.
type ErrImageSyntax string

func (err ErrImageSyntax) Error() string {
	return f("'%v' is not a hex byte", string(err))
}

// ErrScenario locates an error in a scenario script.
type ErrScenario struct {
	Name string
	Key  string
	Err  error
}

func (err *ErrScenario) Error() string {
	if len(err.Key) == 0 {
		return f("%v: %v", err.Name, err.Err)
	}
	return f("%v: %v: %v", err.Name, err.Key, err.Err)
}

func (err *ErrScenario) Unwrap() error {
	return err.Err
}

// ErrMismatch is one expectation that did not hold after a run.
type ErrMismatch struct {
	What string
	Want any
	Got  any
}

func (err *ErrMismatch) Error() string {
	return f("%v: expected %v, got %v", err.What, err.Want, err.Got)
}

// ErrVerify reports a run whose outcome failed verification. The machine
// itself may have run perfectly well.
type ErrVerify struct {
	Err error
}

func (err *ErrVerify) Error() string {
	return f("verify: %v", err.Err)
}

func (err *ErrVerify) Unwrap() error {
	return err.Err
}
