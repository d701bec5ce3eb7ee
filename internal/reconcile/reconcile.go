// Package reconcile keeps arXiv-only papers current against the
// bibliographic authority.
//
// A pending paper is re-queried at most once per throttle window. When the
// authority reports a formal publication the paper is promoted to its
// journal bibcode without losing user-entered data. Failures are isolated
// per paper: one bad lookup never aborts the scan.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/paperlib/paperlib/internal/ads"
	"github.com/paperlib/paperlib/internal/paper"
	"github.com/paperlib/paperlib/internal/resolve"
	"github.com/paperlib/paperlib/internal/store"
)

const (
	// DefaultWindow is the minimum interval between authority checks for
	// one paper. Bounds network use to one lookup per pending paper per
	// window no matter how often the process is launched.
	DefaultWindow = 24 * time.Hour

	// DefaultWorkers bounds concurrent lookups.
	DefaultWorkers = 4

	// DefaultLookupTimeout bounds one lookup. A timed-out lookup counts as
	// transient: throttled and retried in the next eligible window.
	DefaultLookupTimeout = 30 * time.Second
)

// Engine runs the reconciliation pass.
type Engine struct {
	Store         *store.Store
	Lookup        ads.Lookup
	Window        time.Duration
	Workers       int
	LookupTimeout time.Duration

	// Logf receives progress lines; nil silences them.
	Logf func(format string, args ...any)

	// now is swappable for tests.
	now func() time.Time
}

// New returns an engine with default scheduling parameters.
func New(st *store.Store, lookup ads.Lookup) *Engine {
	return &Engine{
		Store:         st,
		Lookup:        lookup,
		Window:        DefaultWindow,
		Workers:       DefaultWorkers,
		LookupTimeout: DefaultLookupTimeout,
		now:           time.Now,
	}
}

// Conflict reports two papers converging on one bibcode. Left for the user
// to resolve; the engine never deletes either paper.
type Conflict struct {
	PaperID    string `json:"paper_id"`
	ExistingID string `json:"existing_id"`
	Bibcode    string `json:"bibcode"`
}

// Failure records a lookup or merge that did not complete for one paper.
type Failure struct {
	PaperID string `json:"paper_id"`
	Reason  string `json:"reason"`
}

// Report summarizes one reconciliation pass. Partial completion is normal:
// an interrupted run leaves the remaining papers pending for the next pass.
type Report struct {
	Candidates   int        `json:"candidates"`
	Skipped      int        `json:"skipped"` // still inside the throttle window
	Checked      int        `json:"checked"`
	Promoted     []string   `json:"promoted"`
	StillPending []string   `json:"still_pending"`
	Conflicts    []Conflict `json:"conflicts"`
	Failures     []Failure  `json:"failures"`
}

// Run scans the store for pending papers and reconciles each eligible one.
// Lookups run on a bounded worker pool; merges serialize through the
// store's mutation gate. Run returns an error only when the store itself
// cannot be read — lookup failures land in the report instead.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	if e.now == nil {
		e.now = time.Now
	}

	candidates, err := e.Store.PendingPapers()
	if err != nil {
		return nil, fmt.Errorf("scanning for pending papers: %w", err)
	}

	report := &Report{Candidates: len(candidates)}
	eligible := make([]paper.Paper, 0, len(candidates))
	for _, p := range candidates {
		if !p.LastCheck.IsZero() && e.now().Sub(p.LastCheck) < e.window() {
			report.Skipped++
			continue
		}
		eligible = append(eligible, p)
	}
	if len(eligible) == 0 {
		return report, nil
	}

	// A missing credential fails every lookup the same way; stop issuing
	// requests after the first one, leaving the rest untouched for a
	// later pass.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu      sync.Mutex // guards report
		wg      sync.WaitGroup
		work    = make(chan paper.Paper)
		authErr error
	)

	workers := e.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range work {
				if ctx.Err() != nil {
					continue // stopped; leave the paper for a later pass
				}
				outcome := e.reconcileOne(ctx, p)
				mu.Lock()
				outcome.apply(report)
				if outcome.authMissing && authErr == nil {
					authErr = outcome.err
					cancel()
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, p := range eligible {
		select {
		case work <- p:
		case <-ctx.Done():
			break feed
		}
	}
	close(work)
	wg.Wait()

	return report, nil
}

func (e *Engine) window() time.Duration {
	if e.Window <= 0 {
		return DefaultWindow
	}
	return e.Window
}

// outcome is the result of reconciling one paper.
type outcome struct {
	id          string
	promoted    bool
	pending     bool
	checked     bool
	conflict    *store.ConflictError
	err         error
	authMissing bool
}

func (o outcome) apply(r *Report) {
	if o.checked {
		r.Checked++
	}
	switch {
	case o.conflict != nil:
		r.Conflicts = append(r.Conflicts, Conflict{
			PaperID:    o.conflict.PaperID,
			ExistingID: o.conflict.ExistingID,
			Bibcode:    o.conflict.Bibcode,
		})
	case o.err != nil:
		r.Failures = append(r.Failures, Failure{PaperID: o.id, Reason: o.err.Error()})
	case o.promoted:
		r.Promoted = append(r.Promoted, o.id)
	case o.pending:
		r.StillPending = append(r.StillPending, o.id)
	}
}

// reconcileOne performs the lookup and merge for a single paper. Every
// completed authority query, successful or not, advances the paper's
// throttle clock so the next pass does not hammer the authority.
func (e *Engine) reconcileOne(ctx context.Context, p paper.Paper) outcome {
	out := outcome{id: p.ID(), pending: true}

	id := lookupIdentifier(p)
	lookupCtx, cancel := context.WithTimeout(ctx, e.lookupTimeout())
	rec, err := e.Lookup.Fetch(lookupCtx, id)
	cancel()

	switch {
	case err == nil:
		// fall through to merge

	case errors.Is(err, ads.ErrAuthMissing):
		// No query reached the authority; don't burn the throttle window.
		out.err = err
		out.authMissing = true
		return out

	case errors.Is(err, ads.ErrNotFound):
		// Expected for a preprint the authority hasn't indexed yet.
		out.checked = true
		e.logf("%s: not yet known to the authority", p.ID())
		if terr := e.Store.TouchReconciled(p.ID(), e.now()); terr != nil {
			out.err = terr
		}
		return out

	case ads.IsRetryable(err):
		out.checked = true
		e.logf("%s: lookup deferred: %v", p.ID(), err)
		if terr := e.Store.TouchReconciled(p.ID(), e.now()); terr != nil {
			out.err = terr
		}
		return out

	default:
		out.checked = true
		out.err = err
		if terr := e.Store.TouchReconciled(p.ID(), e.now()); terr != nil {
			e.logf("%s: recording check time: %v", p.ID(), terr)
		}
		return out
	}

	out.checked = true
	merged, err := e.Store.ApplyRecord(p.ID(), *rec, e.now())
	if err != nil {
		var conflict *store.ConflictError
		if errors.As(err, &conflict) {
			out.conflict = conflict
			e.logf("%s: conflict with %s over bibcode %s", p.ID(), conflict.ExistingID, conflict.Bibcode)
			// Conflicts wait on the user; keep the throttle window moving.
			if terr := e.Store.TouchReconciled(p.ID(), e.now()); terr != nil {
				e.logf("%s: recording check time: %v", p.ID(), terr)
			}
			return out
		}
		out.err = err
		return out
	}

	out.pending = merged.Pending
	out.promoted = !merged.Pending
	if out.promoted {
		e.logf("%s: promoted to %s", p.ID(), merged.Bibcode)
	}
	return out
}

func (e *Engine) lookupTimeout() time.Duration {
	if e.LookupTimeout <= 0 {
		return DefaultLookupTimeout
	}
	return e.LookupTimeout
}

// lookupIdentifier picks the identifier to query: the arXiv id for pending
// papers (the query that discovers a new bibcode), else the bibcode.
func lookupIdentifier(p paper.Paper) resolve.Identifier {
	if p.ArxivID != "" {
		return resolve.Identifier{Kind: resolve.KindArxiv, Value: p.ArxivID}
	}
	return resolve.Identifier{Kind: resolve.KindBibcode, Value: p.Bibcode}
}

func (e *Engine) logf(format string, args ...any) {
	if e.Logf != nil {
		e.Logf(format, args...)
	}
}
