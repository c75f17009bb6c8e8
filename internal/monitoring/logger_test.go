package monitoring

import "testing"

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) { called = true })
	Logf("test message")
	if !called {
		t.Error("custom logger was not called")
	}

	// nil installs a no-op, not a nil function.
	called = false
	SetLogger(nil)
	Logf("test message")
	if called {
		t.Error("no-op logger must not reach the previous logger")
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf must have a default")
	}
}
