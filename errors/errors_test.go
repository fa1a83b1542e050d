package errors

import (
	stdlib "errors"
	"fmt"
	"testing"

	"github.com/pkg/errors"
)

func TestCause(t *testing.T) {
	std := stdlib.New("this is a stdlib error")

	cases := map[string]struct {
		err  error
		root error
	}{
		"Errors are self-causing": {
			err:  ErrInvalidAccountData,
			root: ErrInvalidAccountData,
		},
		"Wrap reveals root cause": {
			err:  Wrap(ErrInvalidAccountData, "foo"),
			root: ErrInvalidAccountData,
		},
		"Cause works for stderr as root": {
			err:  Wrap(std, "Some helpful text"),
			root: std,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := errors.Cause(tc.err); got != tc.root {
				t.Fatal("unexpected result")
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		a      *Error
		b      error
		wantIs bool
	}{
		"instance of the same error": {
			a:      ErrMissingRequiredSignature,
			b:      ErrMissingRequiredSignature,
			wantIs: true,
		},
		"two different coded errors": {
			a:      ErrMissingRequiredSignature,
			b:      ErrIncorrectProgramID,
			wantIs: false,
		},
		"successful comparison to a wrapped error": {
			a:      ErrUninitializedAccount,
			b:      errors.Wrap(ErrUninitializedAccount, "gone"),
			wantIs: true,
		},
		"successful comparison to a double wrapped error": {
			a:      ErrUninitializedAccount,
			b:      Wrap(Wrapf(ErrUninitializedAccount, "escrow %d", 1), "exchange"),
			wantIs: true,
		},
		"unsuccessful comparison to a wrapped error": {
			a:      ErrUninitializedAccount,
			b:      errors.Wrap(ErrOverflow, "too big"),
			wantIs: false,
		},
		"not equal to stdlib error": {
			a:      ErrInvalidAccountData,
			b:      fmt.Errorf("stdlib error"),
			wantIs: false,
		},
		"not equal to a wrapped stdlib error": {
			a:      ErrInvalidAccountData,
			b:      errors.Wrap(fmt.Errorf("stdlib error"), "wrapped"),
			wantIs: false,
		},
		"nil is nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
		"nil is any error nil": {
			a:      nil,
			b:      (*customError)(nil),
			wantIs: true,
		},
		"nil is not not-nil": {
			a:      nil,
			b:      ErrInvalidAccountData,
			wantIs: false,
		},
		"not-nil is not nil": {
			a:      ErrInvalidAccountData,
			b:      nil,
			wantIs: false,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.a.Is(tc.b); got != tc.wantIs {
				t.Fatalf("unexpected result - got:%v want: %v", got, tc.wantIs)
			}
		})
	}
}

type customError struct {
}

func (customError) Error() string {
	return "custom error"
}

func TestWrapEmpty(t *testing.T) {
	if err := Wrap(nil, "wrapping <nil>"); err != nil {
		t.Fatal(err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	Register(ErrInvalidInput.Code(), "duplicate")
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	err := run()
	if !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %+v", err)
	}
}
