package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidInput stands for general input problems indication.
	ErrInvalidInput = Register(2, "invalid input")

	// ErrInvalidInstructionData is returned when a program cannot parse the
	// instruction payload it was given.
	ErrInvalidInstructionData = Register(3, "invalid instruction data")

	// ErrInvalidAccountData is returned when an account holds data that
	// cannot be decoded or does not match what the instruction expects.
	ErrInvalidAccountData = Register(4, "invalid account data")

	// ErrInsufficientFunds is returned when an account balance cannot cover
	// the requested debit.
	ErrInsufficientFunds = Register(6, "insufficient funds")

	// ErrIncorrectProgramID is returned when an account is not owned by the
	// program that was expected to own it.
	ErrIncorrectProgramID = Register(7, "incorrect program id")

	// ErrMissingRequiredSignature is returned when an account that must
	// authorize an instruction did not sign it.
	ErrMissingRequiredSignature = Register(8, "missing required signature")

	// ErrAccountAlreadyInitialized is returned when initialization is
	// attempted on an account that already holds initialized state.
	ErrAccountAlreadyInitialized = Register(9, "account already initialized")

	// ErrUninitializedAccount is returned when an operation requires
	// initialized account state and the account has none.
	ErrUninitializedAccount = Register(10, "uninitialized account")

	// ErrUnbalancedInstruction is returned when the lamport sum of the
	// accounts of an instruction changed during its execution.
	ErrUnbalancedInstruction = Register(11, "sum of account balances before and after instruction do not match")

	// ErrNotEnoughAccountKeys is returned when an instruction references
	// fewer accounts than the program requires.
	ErrNotEnoughAccountKeys = Register(12, "not enough account keys")

	// ErrReadonlyDataModified is returned when an account passed as
	// read-only was modified.
	ErrReadonlyDataModified = Register(13, "read-only account modified")

	// ErrExternalAccountDataModified is returned when a program modified the
	// data of an account it does not own.
	ErrExternalAccountDataModified = Register(14, "program modified data of an account it does not own")

	// ErrExternalAccountLamportSpend is returned when a program debited an
	// account it does not own.
	ErrExternalAccountLamportSpend = Register(15, "program spent lamports of an account it does not own")

	// ErrModifiedProgramID is returned when the owner of an account was
	// changed against the ownership rules.
	ErrModifiedProgramID = Register(16, "account owner modified")

	// ErrPrivilegeEscalation is returned when a cross-program invocation
	// requests a signer or writable privilege the caller does not hold.
	ErrPrivilegeEscalation = Register(17, "cross-program invocation with unauthorized signer or writable account")

	// ErrUnsupportedProgramID is returned when an instruction targets a
	// program that is not deployed on the ledger.
	ErrUnsupportedProgramID = Register(18, "unsupported program id")

	// ErrCallDepth is returned when cross-program invocations nest deeper
	// than the configured limit.
	ErrCallDepth = Register(19, "cross-program invocation call depth too deep")

	// ErrInvalidSeeds is returned when program address seeds do not derive
	// a valid program address.
	ErrInvalidSeeds = Register(20, "invalid seeds for program address")

	// ErrInvalidSignature is returned when a transaction signature does not
	// verify against its public key.
	ErrInvalidSignature = Register(21, "invalid signature")

	// ErrOverflow is returned when a computation cannot be completed
	// because the result value exceeds the type.
	ErrOverflow = Register(22, "an operation cannot be completed due to value overflow")

	// ErrDatabase is returned when the account store fails.
	ErrDatabase = Register(23, "database")

	// ErrHuman is returned when application reaches a code path which should
	// not ever be reached if the code was written as expected.
	ErrHuman = Register(24, "coding error")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info.
	ErrPanic = Register(111222, "panic")
)

// Register returns an error instance that should be used as the base for
// creating error instances during runtime.
//
// Popular root errors are declared in this package, but programs may want to
// declare custom codes. This function ensures that no error code is used
// twice. Attempt to reuse an error code results in panic.
//
// Use this function only during a program startup phase.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// usedCodes is keeping track of used codes to ensure their uniqueness. No two
// error instances should share the same error code.
var usedCodes = map[uint32]*Error{
	1: nil, // Error code 1 is restricted for internal, unregistered errors.
}

// Error represents a root error.
//
// Each instance created during the runtime should wrap one of the declared
// root errors. This allows error tests and returning all errors to the client
// in a safe manner.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the numeric code the error is registered with.
func (e Error) Code() uint32 {
	return e.code
}

// New returns a new error. Returned instance is having the root cause set to
// this error. Below two lines are equal
//   e.New("my description")
//   Wrap(e, "my description")
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is basically New with formatting capabilities.
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is check if given error instance is of a given kind/type. This involves
// unwrapping given error using the Cause method if available.
func (kind *Error) Is(err error) bool {
	// Reflect usage is necessary to correctly compare with
	// a nil implementation of an error.
	if kind == nil {
		if err == nil {
			return true
		}
		return reflect.ValueOf(err).IsNil()
	}

	for {
		if err == kind {
			return true
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

// Wrap extends given error with an additional information.
//
// If the wrapped error does not provide Code method (ie. stdlib errors), it
// will be labeled as internal error.
//
// If err is nil, this returns nil, avoiding the need for an if statement when
// wrapping a error returned at the end of a function.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// If this error does not carry the stacktrace information yet, attach
	// one. This should be done only once per error at the lowest frame
	// possible (most inner wrap).
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf extends given error with an additional information.
//
// This function works like Wrap function with additional funtionality of
// formatting the input as specified.
func Wrapf(err error, format string, args ...interface{}) error {
	desc := fmt.Sprintf(format, args...)
	return Wrap(err, desc)
}

type wrappedError struct {
	// This error layer description.
	msg string
	// The underlying error that triggered this one.
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Recover captures a panic and stop its propagation. If panic happens it is
// transformed into a ErrPanic instance and assigned to given error. Call this
// function using defer in order to work as expected.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// causer is an interface implemented by an error that supports wrapping. Use
// it to test if an error wraps another error instance.
type causer interface {
	Cause() error
}
