// Package epic runs ordered sequences of acts that share one mutable context.
//
// An epic is a pipeline of independently-authored acts. Each act receives the
// current context, may read and write its key-value assigns, may append to its
// error list, and returns the updated context for the next act. Execution is
// strictly sequential: an act completes before the next one starts, and the
// remaining-acts sequence is part of the context itself, so an act can consume
// the acts that follow it. The transactional acts in the ecto package rely on
// exactly that to carve a contiguous sub-sequence out of the remainder and run
// it inside one storage transaction.
//
// Errors travel through the context error list; once the list is non-empty,
// well-behaved acts degrade to no-ops. The only error that escapes an epic run
// directly is a fatal one returned by an act, which aborts the run on the spot.
package epic
