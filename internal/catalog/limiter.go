package catalog

// limiter.go bounds how many logos are decoded and resized at once.
//
// Decoding holds the full bitmap in memory, so parallel uploads of large
// images multiply the footprint. When every slot is taken a request waits up
// to maxWait, then fails as an image upload error. WaitForDrain lets
// shutdown finish the logos in progress.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/JonMunkholm/brandadmin/internal/core"
)

// ErrTooManyImages is wrapped in the error returned when no slot frees up in
// time.
var ErrTooManyImages = errors.New("too many concurrent image uploads")

const (
	DefaultMaxConcurrentImages = 4
	DefaultMaxImageWait        = 15 * time.Second
)

// ImageLimiter is a counting semaphore over logo processing.
type ImageLimiter struct {
	sem     *semaphore.Weighted
	max     int
	maxWait time.Duration
	active  atomic.Int64
}

// NewImageLimiter allows maxConcurrent logos in flight. Zero values take the
// defaults.
func NewImageLimiter(maxConcurrent int, maxWait time.Duration) *ImageLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentImages
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxImageWait
	}
	return &ImageLimiter{
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		max:     maxConcurrent,
		maxWait: maxWait,
	}
}

// Acquire takes a slot. The caller must Release it.
func (l *ImageLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	if err := l.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return core.WrapError(core.KindImageUpload, 0, ErrTooManyImages)
	}
	l.active.Add(1)
	return nil
}

func (l *ImageLimiter) Release() {
	l.active.Add(-1)
	l.sem.Release(1)
}

// Active is the number of logos being processed.
func (l *ImageLimiter) Active() int { return int(l.active.Load()) }

// WaitForDrain blocks until no logo is in flight or ctx ends.
func (l *ImageLimiter) WaitForDrain(ctx context.Context) error {
	if err := l.sem.Acquire(ctx, int64(l.max)); err != nil {
		return err
	}
	l.sem.Release(int64(l.max))
	return nil
}
