package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/qbx/internal/services"
	"github.com/desertthunder/qbx/internal/shared"
	"golang.org/x/time/rate"
)

// Worker pool bounds for [TorrentEngine.BulkSubmit].
const (
	DefaultWorkers = 3
	MaxWorkers     = 10
)

// BulkSubmitOpts contains configuration for bulk submissions.
type BulkSubmitOpts struct {
	Add        services.AddOptions // Options applied to every URL
	NumWorkers int                 // Concurrent workers (default: 3, max: 10)
	RateLimit  float64             // Submissions per second (default: 5)
}

// BulkSubmitResult summarizes a bulk submission. Outcomes keep the input order.
type BulkSubmitResult struct {
	Total    int
	Accepted int
	Rejected int
	Failed   int
	Outcomes []SubmitOutcome
}

// SubmitOutcome is the result for one URL: either Result or Error is set.
type SubmitOutcome struct {
	URL    string
	Result *SubmitResult
	Error  error
}

type submitJob struct {
	index  int
	rawURL string
}

// BulkSubmit submits urls over a rate-limited worker pool after a single login.
//
// Individual failures are collected in the result; only a failed login or a missing service aborts the run.
func (e *TorrentEngine) BulkSubmit(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	urls []string,
	opts BulkSubmitOpts,
) (*BulkSubmitResult, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: no URLs to submit", shared.ErrMissingArgument)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = DefaultWorkers
	}
	if opts.NumWorkers > MaxWorkers {
		opts.NumWorkers = MaxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	e.sendProgress(prog, authenticateUpdate())
	session, err := e.login(ctx)
	if err != nil {
		return nil, err
	}

	result := &BulkSubmitResult{
		Total:    len(urls),
		Outcomes: make([]SubmitOutcome, len(urls)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan submitJob, len(urls))
	done := make(chan submitJob, len(urls))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.submitWorker(ctx, &wg, session, jobs, done, result.Outcomes, opts.Add)
	}

	go func() {
		defer close(jobs)
		for i, rawURL := range urls {
			if err := limiter.Wait(ctx); err != nil {
				for j := i; j < len(urls); j++ {
					result.Outcomes[j] = SubmitOutcome{URL: urls[j], Error: err}
					done <- submitJob{index: j, rawURL: urls[j]}
				}
				return
			}
			e.sendProgress(prog, submittingUpdate(i+1, len(urls), rawURL))
			jobs <- submitJob{index: i, rawURL: rawURL}
		}
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	completed := 0
	for job := range done {
		completed++
		outcome := result.Outcomes[job.index]
		switch {
		case outcome.Error != nil:
			result.Failed++
			e.sendProgress(prog, submitFailedUpdate(completed, len(urls), job.rawURL, outcome.Error))
		case outcome.Result.Accepted:
			result.Accepted++
			e.sendProgress(prog, submittedUpdate(completed, len(urls), outcome.Result))
		default:
			result.Rejected++
			e.sendProgress(prog, submittedUpdate(completed, len(urls), outcome.Result))
		}
	}

	e.sendProgress(prog, completeUpdate(result))
	return result, nil
}

// submitWorker drains jobs. Each worker writes only its own job's slot in outcomes.
func (e *TorrentEngine) submitWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	session services.Session,
	jobs <-chan submitJob,
	done chan<- submitJob,
	outcomes []SubmitOutcome,
	opts services.AddOptions,
) {
	defer wg.Done()

	for job := range jobs {
		res, err := e.submit(ctx, session, job.rawURL, opts)
		outcomes[job.index] = SubmitOutcome{URL: job.rawURL, Result: res, Error: err}
		done <- job
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *TorrentEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
