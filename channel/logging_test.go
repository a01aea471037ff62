package channel

import (
	"errors"
	"net/netip"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerHelperFields(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	key := NewRouteKey(false, 3, netip.MustParseAddrPort("10.0.0.7:4000"))
	newLogger(subComponent, "dispatch").
		WithRouteKey(key).
		WithError(errors.New("boom"), "handle").
		Warn("Handler failed")

	entry := findEntry(t, hook, "Handler failed")
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "Handler failed", entry.Message)
	assert.Equal(t, "channel", entry.Data["package"])
	assert.Equal(t, subComponent, entry.Data["component"])
	assert.Equal(t, "dispatch", entry.Data["function"])
	assert.Equal(t, 3, entry.Data["index"])
	assert.Equal(t, "10.0.0.7:4000", entry.Data["peer"])
	assert.Equal(t, "boom", entry.Data["error"])
	assert.Equal(t, "handle", entry.Data["operation"])
}

func TestLoggerHelperIndex(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	newLogger(mainComponent, "close").WithIndex(1).Error("Failed to close")

	entry := findEntry(t, hook, "Failed to close")
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, 1, entry.Data["index"])
	assert.Equal(t, mainComponent, entry.Data["component"])
}

// findEntry returns the captured entry with message. Reactors from other
// tests may still be logging through the global logger.
func findEntry(t *testing.T, hook *test.Hook, message string) *logrus.Entry {
	t.Helper()
	for _, entry := range hook.AllEntries() {
		if entry.Message == message {
			return entry
		}
	}
	require.Failf(t, "log entry not found", "message %q", message)
	return nil
}
