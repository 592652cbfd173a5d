// Package ecto provides the transactional acts of an epic: Begin and Commit
// delimit a contiguous sub-sequence of acts that runs inside one storage
// transaction, Work flushes the mutations registered so far against the
// persistence provider in registration order, and Delete expands one logical
// deletion into a cascade over related entities.
//
// Acts between Begin and Commit are written without knowledge of one another;
// they cooperate only through the shared context. Any of them may register an
// intended write with Register, and the Work act inside the boundary applies
// whatever has been queued. A single failure rolls the whole boundary back
// while the collected errors stay on the context for downstream acts.
package ecto
