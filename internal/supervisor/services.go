package supervisor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/okian/peerhire/pkg/metrics"
)

const (
	defaultShutdownTimeout    = 10 * time.Second
	defaultSystemInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

// HTTPServer is the lifecycle of *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPService runs an HTTP server under supervision and shuts it down
// gracefully when its context ends.
type HTTPService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
}

// NewHTTPService wraps server. A non-positive timeout uses 10s.
func NewHTTPService(server HTTPServer, shutdownTimeout time.Duration) *HTTPService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &HTTPService{server: server, shutdownTimeout: shutdownTimeout}
}

// Serve implements suture.Service.
func (h *HTTPService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

func (h *HTTPService) String() string { return "http-server" }

// SystemMetricsService samples runtime memory, goroutine and GC statistics
// into the metrics registry.
type SystemMetricsService struct {
	interval time.Duration
}

// NewSystemMetricsService samples every interval. A non-positive interval
// uses 10s.
func NewSystemMetricsService(interval time.Duration) *SystemMetricsService {
	if interval <= 0 {
		interval = defaultSystemInterval
	}
	return &SystemMetricsService{interval: interval}
}

// Serve implements suture.Service.
func (s *SystemMetricsService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	Sample()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			Sample()
		}
	}
}

func (s *SystemMetricsService) String() string { return "system-metrics" }

// Sample records the current runtime statistics once.
func Sample() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	if m.NumGC > 0 {
		metrics.RecordSystemGCPauseTime(float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond)
	}
}

// Named gives a service a name for supervisor logs.
func Named(name string, svc suture.Service) suture.Service {
	return &namedService{name: name, Service: svc}
}

type namedService struct {
	suture.Service
	name string
}

func (n *namedService) String() string { return n.name }
