package analytics

import (
	"context"
	"sync"
	"time"
)

const (
	upstreamDeadlines = "plazos"
	upstreamDocuments = "documentos"
)

// Readiness fans out a ping to both upstreams under the given timeout.
// Status is ok only when both answer.
func (s *Service) Readiness(ctx context.Context, timeout time.Duration) *ReadinessResponse {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp := &ReadinessResponse{
		Status:    StatusOK,
		Upstreams: map[string]string{},
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	check := func(name string, ping func(context.Context) error) {
		defer wg.Done()
		state := StatusOK
		if err := ping(ctx); err != nil {
			state = "error"
		}
		mu.Lock()
		resp.Upstreams[name] = state
		if state != StatusOK {
			resp.Status = "degraded"
		}
		mu.Unlock()
	}

	wg.Add(2)
	go check(upstreamDeadlines, s.deadlines.Ping)
	go check(upstreamDocuments, s.documents.Ping)
	wg.Wait()
	return resp
}
