/*
Package assert holds the few assertions the ledger and program tests use on
top of testify: nil checks that understand typed nil errors, and matching of
registered errors through any number of wraps.
*/
package assert

import (
	"reflect"
)

// Tester is the part of testing.TB the assertions call.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails the test unless value is nil. A typed nil pointer, slice, map,
// channel or func stored in an interface counts as nil.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		// %+v prints the stack of a wrapped error.
		t.Fatalf("want nil, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Equal fails the test unless want and got are deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails the test if fn returns without panicking.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("no panic")
		}
	}()
	fn()
}

// IsErr fails the test unless got was created from want, directly or by
// wrapping. A nil want only matches a nil got.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if kind, ok := want.(interface{ Is(error) bool }); ok && kind.Is(got) {
		return
	}
	t.Fatalf("want %q error, got %+v", want, got)
}
