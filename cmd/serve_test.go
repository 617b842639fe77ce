package main

import (
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownServerDrainsInFlight(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		close(started)
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "done")
	})}
	go srv.Serve(ln)

	status := make(chan int, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err != nil {
			status <- 0
			return
		}
		defer resp.Body.Close()
		io.ReadAll(resp.Body)
		status <- resp.StatusCode
	}()

	// Shutdown begins while the request is still in flight; the request
	// must still complete.
	<-started
	require.NoError(t, shutdownServer(srv))
	assert.Equal(t, http.StatusOK, <-status)
}
