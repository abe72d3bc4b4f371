package tapestry

import (
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
)

// captureLogs routes the ambient logger into a test hook for the duration
// of the test, so warning paths can be asserted on.
func captureLogs(t *testing.T) *logtest.Hook {
	t.Helper()
	nullLogger, hook := logtest.NewNullLogger()
	SetLogger(nullLogger.WithField("component", "image"))
	t.Cleanup(func() { SetLogger(nil) })
	return hook
}
