package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/adtarget-cli/internal/dashboard"
	"github.com/sells-group/adtarget-cli/internal/server"
)

// getFreePort returns a free TCP port on localhost.
func getFreePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()
	return port
}

func TestRunServer_Lifecycle(t *testing.T) {
	withConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess := dashboard.NewSession(fixedSource(), dashboardDefaults())
	port := getFreePort(t)
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: server.New(ctx, sess, cfg.Server, cfg.Export.MaxUploadBytes).Handler(),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- runServer(ctx, srv) }()

	// Wait for server to be ready.
	var ready bool
	for i := 0; i < 40; i++ {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/health", port))
		if err == nil {
			resp.Body.Close()
			ready = resp.StatusCode == http.StatusOK
			break
		}
		time.Sleep(25 * time.Millisecond)
	}
	require.True(t, ready, "server did not become ready")

	resp, err := http.Post(fmt.Sprintf("http://127.0.0.1:%d/api/predictions?wait=true", port), "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
