// Package jobs runs fire-and-forget work on a bounded in-process queue.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"hrperf/internal/platform/metrics"
)

const defaultTimeout = 30 * time.Second

type job struct {
	Type string
	Run  func(context.Context) error
}

type Service struct {
	queue   chan job
	workers int
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func New(size, workers int) *Service {
	if size <= 0 {
		size = 128
	}
	if workers <= 0 {
		workers = 1
	}
	return &Service{
		queue:   make(chan job, size),
		workers: workers,
		timeout: defaultTimeout,
	}
}

func (s *Service) Start(ctx context.Context) {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}
}

// Enqueue never blocks. It returns false when the queue is full or stopped.
func (s *Service) Enqueue(jobType string, run func(context.Context) error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		metrics.JobFinished(jobType, "dropped")
		return false
	}
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		metrics.JobFinished(jobType, "dropped")
		slog.Warn("job queue full", "jobType", jobType)
		return false
	}
}

// Stop rejects new jobs and waits for queued ones to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Service) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-s.queue:
			if !ok {
				return
			}
			if err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (err error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("job panicked: %v", rec)
		}
		status := "completed"
		if err != nil {
			status = "failed"
		}
		metrics.JobFinished(j.Type, status)
	}()
	return j.Run(ctx)
}
