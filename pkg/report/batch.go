package report

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/campusops/canvas-enrollments/pkg/canvas"
	"github.com/rs/zerolog/log"
)

// Default worker-pool widths. Detail runs fetch user-expanded rosters and are
// heavier per course, so they get a narrower pool.
const (
	DefaultSummaryWorkers = 8
	DefaultDetailWorkers  = 4
)

// ProcessCourses summarizes every course id in parallel and returns the rows
// sorted ascending by numeric course id. The first task failure cancels the
// remaining work and aborts the whole run; partial results are discarded.
func ProcessCourses(ctx context.Context, svc *canvas.Service, courseIDs []string, maxWorkers int) ([]Summary, error) {
	if maxWorkers <= 0 {
		maxWorkers = DefaultSummaryWorkers
	}
	return runBatch(ctx, courseIDs, maxWorkers,
		func(ctx context.Context, id string) (Summary, error) {
			return SummarizeCourse(ctx, svc, id)
		},
		func(s Summary) int64 { return s.ID })
}

// ProcessCourseDetails builds the full per-student breakdown for every course
// id in parallel, with the same ordering and abort semantics as
// ProcessCourses.
func ProcessCourseDetails(ctx context.Context, svc *canvas.Service, courseIDs []string, maxWorkers int) ([]CourseDetail, error) {
	if maxWorkers <= 0 {
		maxWorkers = DefaultDetailWorkers
	}
	return runBatch(ctx, courseIDs, maxWorkers,
		func(ctx context.Context, id string) (CourseDetail, error) {
			return BuildCourseDetail(ctx, svc, id)
		},
		func(d CourseDetail) int64 { return d.ID })
}

// indexed pairs a task result with its submission position so that duplicate
// course ids keep their input order after sorting.
type indexed[T any] struct {
	pos int
	val T
}

// runBatch fans courseIDs out across a fixed-size worker pool. Each task is
// independent; suspension happens only at network I/O inside the task.
// Results are collected in completion order, then stably sorted by key.
func runBatch[T any](ctx context.Context, courseIDs []string, maxWorkers int, task func(context.Context, string) (T, error), key func(T) int64) ([]T, error) {
	start := time.Now()

	if len(courseIDs) == 0 {
		return []T{}, nil
	}
	if maxWorkers > len(courseIDs) {
		maxWorkers = len(courseIDs)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan indexed[string], len(courseIDs))
	results := make(chan indexed[T], len(courseIDs))
	errs := make(chan error, maxWorkers)

	for pos, id := range courseIDs {
		jobs <- indexed[string]{pos: pos, val: id}
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < maxWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				val, err := task(ctx, job.val)
				if err != nil {
					log.Warn().
						Err(err).
						Int("worker_id", workerID).
						Str("course_id", job.val).
						Msg("Course task failed")

					// Non-blocking error send; first error wins
					select {
					case errs <- err:
					default:
					}
					cancel()
					return
				}

				results <- indexed[T]{pos: job.pos, val: val}
			}
		}(i)
	}

	wg.Wait()
	close(results)
	close(errs)

	// Abort-on-first-error: partial results are discarded
	if err := <-errs; err != nil {
		return nil, err
	}

	collected := make([]indexed[T], 0, len(courseIDs))
	for r := range results {
		collected = append(collected, r)
	}

	// Deterministic output: ascending numeric course id, submission order
	// breaking ties between duplicate ids
	sort.Slice(collected, func(i, j int) bool {
		ki, kj := key(collected[i].val), key(collected[j].val)
		if ki != kj {
			return ki < kj
		}
		return collected[i].pos < collected[j].pos
	})

	out := make([]T, len(collected))
	for i, r := range collected {
		out[i] = r.val
	}

	log.Debug().
		Int("courses", len(courseIDs)).
		Int("workers", maxWorkers).
		Dur("duration", time.Since(start)).
		Msg("Batch complete")

	return out, nil
}
