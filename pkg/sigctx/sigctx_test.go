package sigctx

import (
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyContext(t *testing.T) {
	ctx, cancel := NotifyContext()
	defer cancel()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context is not done after SIGTERM")
	}
}

func TestShutdownContext(t *testing.T) {
	ctx, cancel := ShutdownContext(time.Minute)
	defer cancel()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, time.Second)
}
