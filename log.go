package tapestry

import "github.com/sirupsen/logrus"

// logger is the ambient logger for the image component. Everything logged
// here is a non-fatal caller error; rendering continues with best-effort
// data.
var logger = defaultLogger()

func defaultLogger() *logrus.Entry {
	return logrus.WithField("component", "image")
}

// SetLogger replaces the ambient logger. Passing nil restores the default.
// Intended for tests and for hosts that route framework logs into their
// own logging pipeline.
func SetLogger(entry *logrus.Entry) {
	if entry == nil {
		logger = defaultLogger()
		return
	}
	logger = entry
}
