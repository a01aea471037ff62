package channel

import (
	"errors"
	"testing"
)

func TestChannelError(t *testing.T) {
	t.Run("Error with index", func(t *testing.T) {
		err := newChannelError("register", 2, ErrReactorStopped)
		expected := "channel register socket 2: reactor stopped"
		if err.Error() != expected {
			t.Errorf("Error() = %q, want %q", err.Error(), expected)
		}
	})

	t.Run("Error without index", func(t *testing.T) {
		err := newChannelError("wait", -1, ErrControlQueueFull)
		expected := "channel wait: control queue full"
		if err.Error() != expected {
			t.Errorf("Error() = %q, want %q", err.Error(), expected)
		}
	})

	t.Run("Unwrap returns underlying error", func(t *testing.T) {
		err := newChannelError("notify", -1, ErrReactorStopped)
		if !errors.Is(err, ErrReactorStopped) {
			t.Error("errors.Is should return true for underlying error")
		}
	})
}
