package browser

import (
	"context"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/formswarm/internal/config"
)

func TestExecOptions_ExtendsDefaults(t *testing.T) {
	cfg := config.BrowserConfig{Headless: true}
	opts := execOptions(cfg)

	// Options are opaque closures; assert the set grew beyond the
	// chromedp defaults by the flags we add.
	assert.Greater(t, len(opts), len(chromedp.DefaultExecAllocatorOptions))
}

func TestExecOptions_ParsesExtraArgs(t *testing.T) {
	base := len(execOptions(config.BrowserConfig{}))

	cfg := config.BrowserConfig{
		Args: []string{"--no-zygote", "window-size=1280,1024"},
	}
	opts := execOptions(cfg)
	assert.Equal(t, base+2, len(opts))
}

// newTestDriver wires a Driver around plain contexts so teardown paths
// can be exercised without a browser process.
func newTestDriver() (*Driver, context.Context) {
	tabCtx, tabCancel := context.WithCancel(context.Background())
	d := &Driver{
		logger:      zap.NewNop(),
		allocCancel: func() {},
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
	}
	return d, tabCtx
}

func TestClose_GracefulShutdown(t *testing.T) {
	d, _ := newTestDriver()
	d.cancelTab = func() error { return nil }

	require.NoError(t, d.Close(context.Background()))
}

func TestClose_DeadlineBoundsWedgedShutdown(t *testing.T) {
	d, tabCtx := newTestDriver()
	// A wedged browser ignores the graceful close and only dies when
	// the tab context is hard-cancelled.
	d.cancelTab = func() error {
		<-tabCtx.Done()
		return tabCtx.Err()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- d.Close(ctx) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return within the caller's deadline")
	}
}
