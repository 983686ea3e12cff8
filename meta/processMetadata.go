package meta

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"go4.org/syncutil"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the number of files read at once when
// BatchOptions.Workers is zero.
const DefaultWorkers = 4

// BatchOptions configures ReadAll
type BatchOptions struct {
	Options
	Workers int
	Logger  *zap.Logger
}

// Result is the outcome for one file. Exactly one of Metadata and Err is
// set.
type Result struct {
	Path     string
	Metadata *Metadata
	Err      error
}

// ReadAll reads metadata from every path, a few files at a time. Results
// are in the order of paths. The error aggregates the per-file failures,
// each prefixed with its path; it is the context's error if ctx ends
// first.
func ReadAll(ctx context.Context, paths []string, o *BatchOptions) ([]Result, error) {
	if o == nil {
		o = &BatchOptions{}
	}
	workers := o.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	log := o.Logger
	if log == nil {
		log = zap.NewNop()
	}

	results := make([]Result, len(paths))
	gate := syncutil.NewGate(workers)
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		gate.Start()
		g.Go(func() error {
			defer gate.Done()
			if err := gctx.Err(); err != nil {
				return err
			}
			md, err := ReadMetadata(gctx, path, &o.Options)
			results[i] = Result{Path: path, Metadata: md, Err: err}
			if err != nil {
				log.Debug("no metadata", zap.String("path", path), zap.Error(err))
				return nil
			}
			log.Debug("decoded metadata", zap.String("path", path), zap.Int("tags", md.Tags.Len()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}

	var merr *multierror.Error
	for _, r := range results {
		if r.Err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", r.Path, r.Err))
		}
	}
	return results, merr.ErrorOrNil()
}
