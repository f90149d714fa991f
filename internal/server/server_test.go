package server

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := New(gin.New(), "localhost", "8080")
	assert.NotNil(t, srv)
	assert.Equal(t, "localhost:8080", srv.http.Addr)
}

func TestStartStopsOnContextCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	// Port 0 lets the OS pick a free port.
	srv := New(gin.New(), "127.0.0.1", "0")

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
