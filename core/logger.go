package core

// Logger is any service that can log messages with their context.
// An optional user.User argument may be passed to attach the acting
// user to the logged event.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
