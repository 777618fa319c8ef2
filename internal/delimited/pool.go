package delimited

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

var ErrPoolClosed = errors.New("parser pool closed")

type job struct {
	text  string
	opts  Options
	reply chan outcome
}

type outcome struct {
	result *Result
	err    error
}

// Pool runs parses on a fixed set of worker goroutines so large exports do not
// block the caller's goroutine. Each request gets its own reply channel, so
// results can never be delivered to the wrong caller.
type Pool struct {
	jobs   chan job
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	logger zerolog.Logger
}

func NewPool(workers int, logger zerolog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}

	p := &Pool{
		jobs:   make(chan job),
		logger: logger,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	logger.Debug().Int("workers", workers).Msg("Parser pool started")
	return p
}

// Parse hands text to a worker and waits for its rows. Cancellation is only
// observed while waiting for a free worker; a started parse runs to completion.
func (p *Pool) Parse(ctx context.Context, text string, opts Options) (*Result, error) {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return nil, ErrPoolClosed
	}

	reply := make(chan outcome, 1)
	select {
	case p.jobs <- job{text: text, opts: opts, reply: reply}:
		p.mu.RUnlock()
	case <-ctx.Done():
		p.mu.RUnlock()
		return nil, ctx.Err()
	}

	out := <-reply
	return out.result, out.err
}

func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Debug().Msg("Parser pool stopped")
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for j := range p.jobs {
		j.reply <- p.run(id, j)
	}
}

func (p *Pool) run(id int, j job) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Int("worker", id).Interface("panic", r).Msg("Parser worker recovered from panic")
			out = outcome{err: &ParseError{Line: 0, Err: fmt.Errorf("parser panic: %v", r)}}
		}
	}()

	res, err := Parse(j.text, j.opts)
	if err != nil {
		p.logger.Warn().Int("worker", id).Err(err).Msg("Parse failed")
	}
	return outcome{result: res, err: err}
}
