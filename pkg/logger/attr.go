package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Provider records the identity provider id under the key "provider".
func Provider(id string) slog.Attr {
	return slog.String("provider", id)
}

// Callback records the host callback name under the key "callback".
func Callback(name string) slog.Attr {
	return slog.String("callback", name)
}

// Email records an email address under the key "email".
func Email(email string) slog.Attr {
	return slog.String("email", email)
}

// UserID records a user identifier under the key "user_id".
func UserID(id string) slog.Attr {
	return slog.String("user_id", id)
}
