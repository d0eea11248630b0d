package core

// Logger is the application logging facade. Implementations decide where
// records go (stdout, Rollbar, ...). Trailing args may carry an error,
// structured extras or the acting user for error-reporting services.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
