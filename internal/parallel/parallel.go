// Package parallel runs data-parallel loops over disjoint index ranges.
//
// Every worker owns a contiguous range, so callers can write into their
// own slice of a shared output without locking. The first error is
// returned once every worker has finished.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers returns the default concurrency limit.
func Workers() int {
	return runtime.GOMAXPROCS(0)
}

// Rows splits [0, n) into at most Workers() contiguous ranges and calls fn
// on each concurrently.
func Rows(n int, fn func(lo, hi int) error) error {
	if n <= 0 {
		return nil
	}
	workers := min(Workers(), n)
	chunk := (n + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			return fn(lo, hi)
		})
	}
	return g.Wait()
}

// Each calls fn(i) for every i in [0, n), at most Workers() at a time.
func Each(n int, fn func(i int) error) error {
	return EachLimit(n, Workers(), fn)
}

// EachLimit calls fn(i) for every i in [0, n), at most limit at a time.
func EachLimit(n, limit int, fn func(i int) error) error {
	if limit <= 0 {
		limit = Workers()
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			return fn(i)
		})
	}
	return g.Wait()
}
