package ring

import (
	"context"
	"sync/atomic"

	"rotarycode-go/errcode"
)

// Ring is a single-producer, single-consumer bounded queue of values.
//
// The producer side (TryPut) never blocks and never allocates, so it may be
// called from an interrupt handler. When the ring holds Cap() elements the
// new value is dropped and counted. The consumer side may block in Get.
type Ring[T any] struct {
	buf  []T
	mask uint32
	cap  uint32
	rd   atomic.Uint32 // consumer index (monotonic)
	wr   atomic.Uint32 // producer index (monotonic)

	drops atomic.Uint32

	readable chan struct{} // 0->>0 available edge
}

// New allocates a ring that admits at most capacity elements.
// The backing array is rounded up to a power of two so the monotonic
// indices stay valid across uint32 wrap.
func New[T any](capacity int) (*Ring[T], error) {
	if capacity < 1 || capacity > 1<<16 {
		return nil, &errcode.E{C: errcode.QueueAllocFailed, Op: "ring.New", Msg: "capacity out of range"}
	}
	size := 1
	for size < capacity {
		size <<= 1
	}
	return &Ring[T]{
		buf:      make([]T, size),
		mask:     uint32(size - 1),
		cap:      uint32(capacity),
		readable: make(chan struct{}, 1),
	}, nil
}

func (r *Ring[T]) Cap() int { return int(r.cap) }

func (r *Ring[T]) Len() int {
	rd := r.rd.Load()
	wr := r.wr.Load()
	return int(wr - rd)
}

// Drops reports how many values TryPut discarded because the ring was full.
func (r *Ring[T]) Drops() uint32 { return r.drops.Load() }

// Producer side

// TryPut copies v into the ring. It returns false, and drops v, when full.
func (r *Ring[T]) TryPut(v T) bool {
	rd := r.rd.Load()
	wr := r.wr.Load()
	beforeAvail := wr - rd
	if beforeAvail >= r.cap {
		r.drops.Add(1)
		return false
	}
	r.buf[wr&r.mask] = v
	r.wr.Store(wr + 1) // release

	if beforeAvail == 0 {
		select {
		case r.readable <- struct{}{}:
		default:
		}
	}
	return true
}

// Consumer side

// TryGet removes the oldest value without blocking.
func (r *Ring[T]) TryGet() (v T, ok bool) {
	rd := r.rd.Load()
	wr := r.wr.Load() // acquire
	if wr == rd {
		return v, false
	}
	idx := rd & r.mask
	v = r.buf[idx]
	var zero T
	r.buf[idx] = zero
	r.rd.Store(rd + 1) // release
	return v, true
}

// Get blocks until a value is available or ctx is done.
func (r *Ring[T]) Get(ctx context.Context) (T, error) {
	for {
		if v, ok := r.TryGet(); ok {
			return v, nil
		}
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-r.readable:
		}
	}
}

// Readable fires after the ring goes from empty to non-empty. Tokens are
// coalesced, so consumers should drain with TryGet after each wake.
// On a multi-core host a put racing the final TryGet can see the ring as
// non-empty and skip the token; check Len before waiting again. On the
// single-core target the ISR cannot interleave that way.
func (r *Ring[T]) Readable() <-chan struct{} { return r.readable }
