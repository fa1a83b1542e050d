/*
Package errors implements the error values used by the ledger runtime and the
programs it executes.

Every failure that leaves a program is expected to wrap exactly one root error.
Root errors carry a numeric code that is returned to the client as part of the
transaction result, so that a failed instruction can be classified without
parsing its message.

Runtime level root errors are declared in this package. A program declares its
own custom errors with Register(code, description). Register panics when a
code is used twice, so codes stay unique across every program linked into the
binary.

Use ErrXyz.New, ErrXyz.Newf, Wrap or Wrapf at the point of failure so that a
stack trace is attached. Only the innermost wrap records the trace.

Format verbs:
	%s is just the error message
	%v appends a compressed [filename:line] where the error was created
	%+v is the full stack trace
*/
package errors
