package batcher

import (
	"expvar"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var xStats = expvar.NewMap("dtfmtStatsBatcher")

// BatchHandler defines handler, called with batches in the order of Add
type BatchHandler[T any] func([]T) error

// Batcher implements buffered batcher.
// A batch is handled when it reaches maxLen, on each tick, and on Exit.
type Batcher[T any] struct {
	mu  sync.Mutex
	hmu sync.Mutex

	buf        []T
	maxLen     int
	ticker     *time.Ticker
	tickerExit chan bool
	exited     chan struct{}

	handler BatchHandler[T]
	name    string
}

// NewBatcher returns new instance, d <= 0 disables the ticker
func NewBatcher[T any](name string, bh func([]T) error, d time.Duration, maxLen int) *Batcher[T] {
	if d <= 0 {
		d = math.MaxInt64
	}
	if maxLen < 1 {
		maxLen = 1
	}
	bt := Batcher[T]{
		buf:        make([]T, 0, maxLen),
		maxLen:     maxLen,
		ticker:     time.NewTicker(d),
		tickerExit: make(chan bool, 1),
		exited:     make(chan struct{}),

		handler: bh,
		name:    name,
	}

	/* handle ticker */
	go func() {
		defer close(bt.exited)
		for {
			select {
			case <-bt.ticker.C:
				bt.Batch()
			case <-bt.tickerExit:
				bt.ticker.Stop()
				bt.Batch()
				return
			}
		}
	}()

	return &bt
}

// Add adds single item to batch buffer
func (bt *Batcher[T]) Add(v T) {
	bt.mu.Lock()
	bt.buf = append(bt.buf, v)
	full := len(bt.buf) >= bt.maxLen
	bt.mu.Unlock()

	if full {
		log.Trace().Str("batcher", bt.name).
			Int("maxLen", bt.maxLen).
			Msg("batch buffer is full")
		bt.Batch()
	}
}

// Batch processes buffered items
func (bt *Batcher[T]) Batch() {
	/* hold handler lock while taking the buffer to keep batches in order */
	bt.hmu.Lock()
	defer bt.hmu.Unlock()

	bt.mu.Lock()
	buf := bt.buf
	bt.buf = make([]T, 0, bt.maxLen)
	bt.mu.Unlock()

	if len(buf) == 0 {
		return
	}
	xStats.Add(bt.name+":batches", 1)
	xStats.Add(bt.name+":items", int64(len(buf)))
	log.Trace().Str("batcher", bt.name).
		Int("bufferLen", len(buf)).
		Msg("Batcher.Batch")
	if err := bt.handler(buf); err != nil {
		log.Err(err).Str("batcher", bt.name).
			Int("bufferLen", len(buf)).
			Msg("Batcher.Batch handler")
	}
}

// Exit stops the internal ticker, handles the rest of buffer and waits for it.
// It must be called once.
func (bt *Batcher[T]) Exit() {
	bt.tickerExit <- true
	<-bt.exited
}
