package solver

import (
	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/busytime/core/model"
)

// solveParallel evaluates the candidate starts of the root window on a
// bounded errgroup. The sub-windows are solved sequentially inside each
// goroutine against the shared memo. Candidates are reduced in start order
// afterwards, so the outcome matches a sequential solve.
func (r *run) solveParallel(w model.Window, limit int) (entry, error) {
	if w.Empty() {
		return emptyEntry, nil
	}
	r.misses.Add(1)
	if err := r.ctx.Err(); err != nil {
		return entry{}, err
	}
	pos := FindPivot(r.jobs, w)
	if pos < 0 {
		r.memo.put(w, emptyEntry)
		return emptyEntry, nil
	}
	lo, hi := r.domain.StartRange(r.jobs[pos])
	if lo > hi {
		e := entry{pivot: pos}
		r.memo.put(w, e)
		return e, nil
	}

	results := make([]entry, hi-lo+1)
	g, ctx := errgroup.WithContext(r.ctx)
	g.SetLimit(limit)
	sub := &run{ctx: ctx, jobs: r.jobs, domain: r.domain, memo: r.memo}
	for s := lo; s <= hi; s++ {
		s := s
		g.Go(func() error {
			c, err := sub.candidate(w, pos, s)
			if err != nil {
				return err
			}
			results[s-lo] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return entry{}, err
	}
	r.hits.Add(sub.hits.Load())
	r.misses.Add(sub.misses.Load())

	best := entry{pivot: pos}
	for _, c := range results {
		best = pick(best, c)
	}
	r.memo.put(w, best)
	return best, nil
}
