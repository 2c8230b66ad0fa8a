package logging

// nopLogger discards every entry. It backs NewNop, the Logger used by tests
// and by components constructed before the real logger exists.
type nopLogger struct{}

func (nopLogger) Debug(string, ...Field) {}
func (nopLogger) Info(string, ...Field)  {}
func (nopLogger) Warn(string, ...Field)  {}
func (nopLogger) Error(string, ...Field) {}
func (nopLogger) Fatal(string, ...Field) {}

func (n nopLogger) With(...Field) Logger  { return n }
func (n nopLogger) Named(string) Logger   { return n }

// NewNop returns a Logger that discards all output.
func NewNop() Logger { return nopLogger{} }
