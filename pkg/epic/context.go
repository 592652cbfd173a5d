package epic

// Context is the mutable state threaded through an epic run.
//
// Acts is the remaining-acts sequence: the executor pops the head before
// dispatching it, so an act that inspects Acts sees exactly the acts that
// would run after it, and may consume them. Assigns maps arbitrary keys to
// arbitrary values. Pending is the ordered list of assign keys registered for
// the next mutation flush; it is an explicit field rather than a hidden
// assign so ownership stays visible. The error list is append-only.
type Context struct {
	Acts    []Act
	Assigns map[string]any
	Pending []string
	Logger  Logger

	errs []error
	opts []Option
	prev Info
}

// NewContext returns an empty context with a no-op logger.
func NewContext() *Context {
	return &Context{
		Assigns: make(map[string]any),
		Logger:  NopLogger{},
		prev:    Start,
	}
}

// Assign binds value under key, replacing any previous binding.
func (c *Context) Assign(key string, value any) *Context {
	if c.Assigns == nil {
		c.Assigns = make(map[string]any)
	}
	c.Assigns[key] = value

	return c
}

// Value returns the assign bound under key.
func (c *Context) Value(key string) (any, bool) {
	v, ok := c.Assigns[key]

	return v, ok
}

// Register appends key to the pending mutation keys. Registering the same key
// again is a no-op: a key flushes once, with whatever value it holds at flush
// time.
func (c *Context) Register(key string) *Context {
	for _, k := range c.Pending {
		if k == key {
			return c
		}
	}
	c.Pending = append(c.Pending, key)

	return c
}

// ClearPending drops every registered key, typically after a flush.
func (c *Context) ClearPending() *Context {
	c.Pending = nil

	return c
}

// AddError appends err to the context error list. Nil errors are ignored.
func (c *Context) AddError(err error) *Context {
	if err != nil {
		c.errs = append(c.errs, err)
	}

	return c
}

// Errors returns a copy of the accumulated error list.
func (c *Context) Errors() []error {
	out := make([]error, len(c.errs))
	copy(out, c.errs)

	return out
}

// HasErrors reports whether any error has been added to the context.
func (c *Context) HasErrors() bool {
	return len(c.errs) > 0
}
