package core

type (
	// Logger is any service that can log and report application events.
	// args may contain errors, maps of extra data or the user.User the event relates to.
	Logger interface {
		Debug(msg string, args ...interface{})
		Info(msg string, args ...interface{})
		Warn(msg string, args ...interface{})
		Error(msg string, args ...interface{})
		Fatal(msg string, args ...interface{})
	}

	// Notifier surfaces short, non-blocking messages to the person using the client.
	Notifier interface {
		Success(msg string)
		Warning(msg string)
		Error(msg string)
	}
)
