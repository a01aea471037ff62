package channel

import (
	"github.com/sirupsen/logrus"
)

// loggerHelper builds a logrus entry tagged with the reactor component and
// the function logging, plus whatever socket context the caller adds.
type loggerHelper struct {
	entry *logrus.Entry
}

// newLogger creates a logger helper tagged with the reactor component and
// calling function.
func newLogger(component, function string) *loggerHelper {
	return &loggerHelper{
		entry: logrus.WithFields(logrus.Fields{
			"package":   "channel",
			"component": component,
			"function":  function,
		}),
	}
}

// WithField adds a custom field.
func (l *loggerHelper) WithField(key string, value interface{}) *loggerHelper {
	l.entry = l.entry.WithField(key, value)
	return l
}

// WithIndex tags the entry with a socket's route key index.
func (l *loggerHelper) WithIndex(index int) *loggerHelper {
	return l.WithField("index", index)
}

// WithRouteKey tags the entry with the socket index and peer of a datagram.
func (l *loggerHelper) WithRouteKey(key RouteKey) *loggerHelper {
	l.entry = l.entry.WithFields(logrus.Fields{
		"index": key.Index(),
		"peer":  key.Addr().String(),
	})
	return l
}

// WithError records err and the operation that produced it.
func (l *loggerHelper) WithError(err error, operation string) *loggerHelper {
	l.entry = l.entry.WithFields(logrus.Fields{
		"error":     err.Error(),
		"operation": operation,
	})
	return l
}

func (l *loggerHelper) Debug(message string) { l.log(logrus.DebugLevel, message) }
func (l *loggerHelper) Info(message string)  { l.log(logrus.InfoLevel, message) }
func (l *loggerHelper) Warn(message string)  { l.log(logrus.WarnLevel, message) }
func (l *loggerHelper) Error(message string) { l.log(logrus.ErrorLevel, message) }

func (l *loggerHelper) log(level logrus.Level, message string) {
	l.entry.Log(level, message)
}
