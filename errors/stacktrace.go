package errors

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// stackTracer is implemented by pkg/errors values that carry a trace.
type stackTracer interface {
	error
	StackTrace() errors.StackTrace
}

// stackTrace returns the innermost recorded stack trace of the error chain or
// nil if none of the wrapped errors carries one.
func stackTrace(err error) errors.StackTrace {
	var st errors.StackTrace
	for err != nil {
		if s, ok := err.(stackTracer); ok {
			st = s.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return st
}

// trimInternal drops the frames of this package and the runtime from the
// top and bottom of the trace.
func trimInternal(st errors.StackTrace) errors.StackTrace {
	for len(st) > 0 && matchesFile(st[0], "/errors/errors.go", "/runtime/") {
		st = st[1:]
	}
	for len(st) > 0 && matchesFile(st[len(st)-1], "/runtime/") {
		st = st[:len(st)-1]
	}
	return st
}

func matchesFile(f errors.Frame, substrs ...string) bool {
	file, _ := fileLine(f)
	for _, sub := range substrs {
		if strings.Contains(file, sub) {
			return true
		}
	}
	return false
}

func fileLine(f errors.Frame) (string, int) {
	pc := uintptr(f) - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown", 0
	}
	return fn.FileLine(pc)
}

func writeSimpleFrame(s io.Writer, f errors.Frame) {
	file, line := fileLine(f)
	// cut file at "github.com/"
	chunks := strings.SplitN(file, "github.com/", 2)
	if len(chunks) == 2 {
		file = chunks[1]
	}
	fmt.Fprintf(s, " [%s:%d]", file, line)
}

// Format works like pkg/errors, with additions.
// %s is just the error message
// %+v is the full stack trace
// %v appends a compressed [filename:line] where the error
//    was created
func (e *wrappedError) Format(s fmt.State, verb rune) {
	st := trimInternal(stackTrace(e))
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s", e.Error())
		fmt.Fprintf(s, "%+v", st)
		return
	}
	io.WriteString(s, e.Error())
	if verb == 'v' && len(st) > 0 {
		writeSimpleFrame(s, st[0])
	}
}
