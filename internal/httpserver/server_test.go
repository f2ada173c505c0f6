package httpserver

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"
)

func TestNewAppliesDefaults(t *testing.T) {
	srv := New(8080, http.NotFoundHandler())
	if srv.Addr() != ":8080" {
		t.Fatalf("expected :8080 got %s", srv.Addr())
	}
	if srv.inner.WriteTimeout != DefaultWriteTimeout {
		t.Fatalf("expected default write timeout got %s", srv.inner.WriteTimeout)
	}

	srv = New(9090, http.NotFoundHandler(), WithWriteTimeout(time.Minute), WithWriteTimeout(0))
	if srv.inner.WriteTimeout != time.Minute {
		t.Fatalf("expected overridden write timeout got %s", srv.inner.WriteTimeout)
	}
}

func TestRunShutsDownOnContextCancel(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	srv := New(0, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, srv, func() error { return srv.Serve(listener) }, nil)
	}()

	resp, err := http.Get("http://" + listener.Addr().String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunReturnsStartError(t *testing.T) {
	boom := errors.New("address in use")
	srv := New(0, http.NotFoundHandler())

	err := Run(context.Background(), srv, func() error { return boom }, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected start error got %v", err)
	}
}
