package epic

import "context"

// Kind tags the closed set of act variants the executor distinguishes.
type Kind string

const (
	KindAct    Kind = "act"
	KindBegin  Kind = "begin"
	KindWork   Kind = "work"
	KindCommit Kind = "commit"
	KindDelete Kind = "delete"
)

// Info describes an act to run observers such as the drawer and measure.
type Info struct {
	Name string
	Kind Kind
}

// Start is the synthetic predecessor handed to run observers before the
// first act executes.
var Start = Info{Name: "start"}

// Act is one unit of an epic.
//
// Run receives the current context and returns the updated one. A non-nil
// error is fatal and aborts the whole run immediately; recoverable failures
// belong in the context error list instead.
type Act interface {
	Info() Info
	Run(ctx context.Context, ectx *Context) (*Context, error)
}

// ActFunc adapts a plain function to the Act interface.
type ActFunc struct {
	name string
	fn   func(ctx context.Context, ectx *Context) (*Context, error)
}

// NewAct wraps fn as a named act of kind KindAct.
func NewAct(name string, fn func(ctx context.Context, ectx *Context) (*Context, error)) *ActFunc {
	return &ActFunc{name: name, fn: fn}
}

// Info implements Act.
func (a *ActFunc) Info() Info {
	return Info{Name: a.name, Kind: KindAct}
}

// Run implements Act.
func (a *ActFunc) Run(ctx context.Context, ectx *Context) (*Context, error) {
	if a.fn == nil {
		return ectx, nil
	}

	return a.fn(ctx, ectx)
}
