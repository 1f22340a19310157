package nitfviz

import (
	"fmt"
	"io"
	"runtime"
	"sync"
)

// BatchOptions controls how RenderFiles spreads work and handles failures.
type BatchOptions struct {
	// Parallel enables concurrent rendering.
	// When true, files are rendered by multiple worker goroutines.
	Parallel bool

	// Workers specifies the number of rendering goroutines.
	// If 0, defaults to runtime.NumCPU().
	// Only used when Parallel is true.
	Workers int

	// SkipErrors causes rendering to continue when individual files fail.
	// Failed files are skipped and their errors collected.
	// When false, the first error stops the batch and is returned alone.
	SkipErrors bool

	// Progress is an optional callback called after each file is rendered
	// (successfully or with error) with the number processed so far.
	Progress func(done, total int)

	// ErrorLog is an optional writer receiving one line per failed file.
	ErrorLog io.Writer
}

// DefaultBatchOptions returns batch options with sensible defaults.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		Parallel:   true,
		Workers:    runtime.NumCPU(),
		SkipErrors: true,
	}
}

// RenderFiles renders several NITF files with Render.
//
// Outputs are returned in input order; a file that failed has no entry.
// Every error names the file it came from.
// opts.Prefix must be empty when more than one path is given, since every
// output would otherwise get the same name.
//
// Each file already fans its numeric work out over all CPUs, so Workers
// mostly helps overlap file I/O with computation.
func RenderFiles(paths []string, opts Options, batch BatchOptions) ([]string, []error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if opts.Prefix != "" && len(paths) > 1 {
		return nil, []error{fmt.Errorf("output prefix %q cannot be shared by %d inputs", opts.Prefix, len(paths))}
	}

	if !batch.Parallel {
		return renderSerial(paths, opts, batch)
	}

	workers := batch.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	type renderResult struct {
		index int
		out   string
		err   error
	}

	jobs := make(chan int, len(paths))
	results := make(chan renderResult, len(paths))
	stop := make(chan struct{})
	var stopOnce sync.Once

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				select {
				case <-stop:
					continue
				default:
				}
				out, err := Render(paths[index], opts)
				results <- renderResult{index: index, out: out, err: err}
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	outputs := make(map[int]string)
	var errs []error
	var fatal error
	done := 0
	for result := range results {
		done++
		if batch.Progress != nil {
			batch.Progress(done, len(paths))
		}

		if result.err != nil {
			err := result.err
			if batch.ErrorLog != nil {
				fmt.Fprintf(batch.ErrorLog, "Error rendering file: %v\n", err)
			}
			if batch.SkipErrors {
				errs = append(errs, err)
				continue
			}
			if fatal == nil {
				fatal = err
				stopOnce.Do(func() { close(stop) })
			}
			continue
		}
		outputs[result.index] = result.out
	}
	if fatal != nil {
		return nil, []error{fatal}
	}

	ordered := make([]string, 0, len(outputs))
	for i := range paths {
		if out, ok := outputs[i]; ok {
			ordered = append(ordered, out)
		}
	}
	return ordered, errs
}

// renderSerial renders files one at a time (fallback when Parallel=false).
func renderSerial(paths []string, opts Options, batch BatchOptions) ([]string, []error) {
	outputs := make([]string, 0, len(paths))
	var errs []error

	for i, path := range paths {
		out, err := Render(path, opts)
		if batch.Progress != nil {
			batch.Progress(i+1, len(paths))
		}
		if err != nil {
			if batch.ErrorLog != nil {
				fmt.Fprintf(batch.ErrorLog, "Error rendering file: %v\n", err)
			}
			if batch.SkipErrors {
				errs = append(errs, err)
				continue
			}
			return nil, []error{err}
		}
		outputs = append(outputs, out)
	}
	return outputs, errs
}
