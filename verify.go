package clubcard

import (
	"context"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/clubcard/ribbon"
)

const verifyChunk = 4096

// Verify checks every item's answer against its Included ground truth.
//
// Items are checked concurrently in chunks. A nil error means every answer
// was correct. Disagreements are reported as a *VerifyError whose
// mismatches are ordered by item position. Verify stops early when ctx is
// canceled and returns the context error.
func Verify[T ribbon.Filterable, U, P any](ctx context.Context, c *Clubcard[U, P], items []T) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	var (
		mu         sync.Mutex
		mismatches []int
	)

	for start := 0; start < len(items); start += verifyChunk {
		end := min(start+verifyChunk, len(items))
		g.Go(func() error {
			var local []int
			for i := start; i < end; i++ {
				if i%256 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if c.lookup(items[i]) != membership(items[i].Included()) {
					local = append(local, i)
				}
			}
			if len(local) > 0 {
				mu.Lock()
				mismatches = append(mismatches, local...)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if len(mismatches) == 0 {
		return nil
	}

	slices.Sort(mismatches)
	verr := &VerifyError{Checked: len(items)}
	for _, i := range mismatches {
		verr.Mismatches = append(verr.Mismatches, slices.Clone(items[i].Discriminant()))
	}
	return verr
}
