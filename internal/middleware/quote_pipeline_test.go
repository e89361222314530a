package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"AlphaPulse/internal/domain/models"
)

type nopMetrics struct{}

func (nopMetrics) RecordEventPublished(string)     {}
func (nopMetrics) RecordError(string)              {}
func (nopMetrics) RecordLastPrice(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)   {}

type captureSink struct {
	mu    sync.Mutex
	ticks []*models.Tick
	err   error
}

func (s *captureSink) ProcessTick(_ context.Context, t *models.Tick) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.ticks = append(s.ticks, t)
	return nil
}

func (s *captureSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ticks)
}

func validTick(symbol string) *models.Tick {
	return &models.Tick{Symbol: symbol, Price: 100, Volume: 10, Timestamp: time.Now().Unix()}
}

func TestProcessForwardsValidTick(t *testing.T) {
	sink := &captureSink{}
	p := NewQuotePipeline(sink, nopMetrics{})

	if err := p.Process(context.Background(), validTick("AAPL")); err != nil {
		t.Fatalf("process: %v", err)
	}
	if sink.count() != 1 {
		t.Fatalf("sink received %d ticks, want 1", sink.count())
	}
}

func TestProcessRejectsInvalidTicks(t *testing.T) {
	sink := &captureSink{}
	p := NewQuotePipeline(sink, nopMetrics{})

	cases := []*models.Tick{
		nil,
		{Symbol: "", Price: 100, Volume: 1, Timestamp: 1},
		{Symbol: "AAPL", Price: 0, Volume: 1, Timestamp: 1},
		{Symbol: "AAPL", Price: 100, Volume: -1, Timestamp: 1},
		{Symbol: "AAPL", Price: 100, Volume: 1, Timestamp: 0},
	}
	for _, tick := range cases {
		if err := p.Process(context.Background(), tick); err == nil {
			t.Fatalf("tick %+v should be rejected", tick)
		}
	}
	if sink.count() != 0 {
		t.Fatal("invalid ticks must not reach the sink")
	}
}

func TestProcessThrottlesPerSymbol(t *testing.T) {
	sink := &captureSink{}
	p := NewQuotePipeline(sink, nopMetrics{}, WithMaxRPS(1))

	// Two back-to-back ticks for the same symbol; the second is dropped.
	if err := p.Process(context.Background(), validTick("AAPL")); err != nil {
		t.Fatalf("process: %v", err)
	}
	if err := p.Process(context.Background(), validTick("AAPL")); err != nil {
		t.Fatalf("throttled tick should drop silently, got %v", err)
	}
	if sink.count() != 1 {
		t.Fatalf("sink received %d ticks, want 1", sink.count())
	}

	// A different symbol has its own budget.
	if err := p.Process(context.Background(), validTick("MSFT")); err != nil {
		t.Fatalf("process: %v", err)
	}
	if sink.count() != 2 {
		t.Fatalf("sink received %d ticks, want 2", sink.count())
	}
}

func TestProcessBuffersOnSinkFailure(t *testing.T) {
	sink := &captureSink{err: errors.New("redis down")}
	p := NewQuotePipeline(sink, nopMetrics{}, WithBufferSize(4))

	if err := p.Process(context.Background(), validTick("AAPL")); err == nil {
		t.Fatal("downstream failure should surface")
	}
	if len(p.bufCh) != 1 {
		t.Fatalf("buffered %d ticks, want 1", len(p.bufCh))
	}
}

func TestStartDrainsBufferOnceSinkRecovers(t *testing.T) {
	sink := &captureSink{err: errors.New("redis down")}
	p := NewQuotePipeline(sink, nopMetrics{}, WithBufferSize(4))

	_ = p.Process(context.Background(), validTick("AAPL"))

	sink.mu.Lock()
	sink.err = nil
	sink.mu.Unlock()

	p.Start(context.Background())
	defer p.Stop()

	deadline := time.After(2 * time.Second)
	for sink.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("buffered tick never flushed")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
