package nimblesteps

import "github.com/nimblesteps/nimblesteps-go/internal/interfaces"

// logDebug/logWarn/logError call through a possibly-nil Logger, since Log
// is optional at runtime.
func logDebug(l interfaces.Logger, msg string, args ...any) {
	if l != nil {
		l.Debug(msg, args...)
	}
}

func logWarn(l interfaces.Logger, msg string, args ...any) {
	if l != nil {
		l.Warn(msg, args...)
	}
}

func logError(l interfaces.Logger, msg string, args ...any) {
	if l != nil {
		l.Error(msg, args...)
	}
}
