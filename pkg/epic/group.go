package epic

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type groupRun struct {
	epic *Epic
	ectx *Context
}

// Group runs independent epics concurrently, typically against one shared
// persistence provider. Each epic stays strictly sequential internally; the
// group only overlaps distinct runs.
type Group struct {
	runs []groupRun
}

// Add schedules epic with its own context. Contexts must not be shared
// between runs.
func (g *Group) Add(e *Epic, ectx *Context) error {
	if e == nil {
		return ErrEpicMustBeSet
	}
	if ectx == nil {
		return ErrContextMustBeSet
	}
	g.runs = append(g.runs, groupRun{epic: e, ectx: ectx})

	return nil
}

// Run executes every scheduled epic and waits for all of them. The first
// fatal error cancels the remaining runs and is returned. Contexts are
// returned in scheduling order; a cancelled run yields its context as far as
// it got.
func (g *Group) Run(ctx context.Context) ([]*Context, error) {
	results := make([]*Context, len(g.runs))
	errGrp, dCtx := errgroup.WithContext(ctx)

	for idx, run := range g.runs {
		localIdx := idx
		localRun := run
		errGrp.Go(func() error {
			out, err := localRun.epic.Run(dCtx, localRun.ectx)
			if out == nil {
				out = localRun.ectx
			}
			results[localIdx] = out

			return err
		})
	}

	return results, errGrp.Wait()
}
