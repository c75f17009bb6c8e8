package monitoring

import "log"

// Logf is the package-level diagnostic logger for the landmarking pipeline.
// It defaults to log.Printf; SetLogger redirects or mutes it, which tests and
// embedding applications use to keep their output clean.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
