package epic

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Epic is an ordered sequence of acts sharing one context.
type Epic struct {
	acts []Act
	opts []Option
}

// New creates a new epic from acts.
func New(acts []Act, opts ...Option) (*Epic, error) {
	for _, act := range acts {
		if act == nil {
			return nil, ErrActMustBeSet
		}
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply epic option")
		}
	}

	return &Epic{acts: acts, opts: opts}, nil
}

// Run executes every act in sequence on ectx and returns the final context.
// The returned error is fatal only: recoverable failures accumulate in the
// context error list and do not stop the run by themselves.
func (e *Epic) Run(ctx context.Context, ectx *Context) (*Context, error) {
	if ectx == nil {
		return nil, ErrContextMustBeSet
	}
	if ectx.Logger == nil {
		ectx.Logger = NopLogger{}
	}
	ectx.opts = e.opts
	ectx.prev = Start
	ectx.Acts = append(make([]Act, 0, len(e.acts)), e.acts...)

	out, err := RunActs(ctx, ectx)
	if err != nil {
		return out, err
	}

	return out, e.finishRun()
}

func (e *Epic) finishRun() error {
	for _, opt := range e.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish epic option")
		}
	}

	return nil
}

// RunActs drains the remaining-acts sequence on ectx, dispatching each act
// through its Run capability. Acts that consume the sequence themselves, such
// as a transaction boundary running its nested span, call RunActs on the
// sub-sequence they carved out.
func RunActs(ctx context.Context, ectx *Context) (*Context, error) {
	if ectx == nil {
		return nil, ErrContextMustBeSet
	}

	for len(ectx.Acts) > 0 {
		act := ectx.Acts[0]
		ectx.Acts = ectx.Acts[1:]
		if act == nil {
			return ectx, ErrActMustBeSet
		}
		info := act.Info()

		for _, opt := range ectx.opts {
			err := opt.PrepareAct(ectx.prev, info)
			if err != nil {
				return ectx, errors.Wrapf(err, "unable to prepare act %s", info.Name)
			}
		}
		ectx.prev = info

		start := time.Now()
		next, err := act.Run(ctx, ectx)
		if next != nil {
			ectx = next
		}
		if err != nil {
			return ectx, errors.Wrapf(err, "act %s", info.Name)
		}

		for _, opt := range ectx.opts {
			err := opt.OnActDone(info, time.Since(start))
			if err != nil {
				return ectx, errors.Wrapf(err, "unable to observe act %s", info.Name)
			}
		}
	}

	return ectx, nil
}
