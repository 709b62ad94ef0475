package internal_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/approuter/internal"
)

type helloHandler struct{}

func (helloHandler) Routes(r internal.Router) {
	r.GET("/hello", func(c internal.Context) error {
		return c.String(http.StatusOK, "hello")
	})
}

func TestRun_GracefulShutdown(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var hooks []string
	app := internal.New(internal.WithHandlers(helloHandler{}))

	done := make(chan error, 1)
	go func() {
		done <- app.Run("",
			internal.WithListener(ln),
			internal.WithContext(ctx),
			internal.ShutdownTimeout(5*time.Second),
			internal.ShutdownHook(func(context.Context) error {
				hooks = append(hooks, "first")
				return nil
			}),
			internal.ShutdownHook(func(context.Context) error {
				hooks = append(hooks, "second")
				return nil
			}),
		)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/hello")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "hello", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.Equal(t, []string{"first", "second"}, hooks)
}

func TestRun_HookErrorsAreJoined(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	boom := errors.New("close failed")
	err = internal.New().Run("",
		internal.WithListener(ln),
		internal.WithContext(ctx),
		internal.ShutdownHook(func(context.Context) error { return boom }),
	)
	assert.ErrorIs(t, err, boom)
}
