// Package changeset defines the mutation descriptor consumed by the
// transactional acts: an intended write against one entity, its operation,
// its validity, and the validation errors collected against it.
package changeset

// Operation enumerates the mutations a changeset can describe.
type Operation string

const (
	OpNone   Operation = ""
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpUpsert Operation = "upsert"
	OpDelete Operation = "delete"
)

// Recognized reports whether op is one the flush dispatch understands.
func (op Operation) Recognized() bool {
	switch op {
	case OpInsert, OpUpdate, OpUpsert, OpDelete:
		return true
	case OpNone:
		return false
	}

	return false
}

// ConflictPolicy tells the provider how an upsert resolves conflicts.
type ConflictPolicy string

const (
	// ConflictRaise fails the upsert on a conflicting row.
	ConflictRaise ConflictPolicy = "raise"
	// ConflictNothing keeps the existing row untouched.
	ConflictNothing ConflictPolicy = "nothing"
	// ConflictReplaceAll replaces the existing row entirely.
	ConflictReplaceAll ConflictPolicy = "replace_all"
)

// FieldError describes a validation failure on a single field.
type FieldError struct {
	Field   string
	Message string
}

// Error implements error.
func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Changeset describes an intended write. It is produced by upstream acts
// through domain validation and consumed by the flush; the entity itself is
// opaque to this package.
type Changeset struct {
	Entity     any
	Op         Operation
	OnConflict ConflictPolicy
	Valid      bool
	Errors     []FieldError
}

// New creates a valid changeset for entity with the given operation.
func New(entity any, op Operation) *Changeset {
	return &Changeset{
		Entity:     entity,
		Op:         op,
		OnConflict: ConflictRaise,
		Valid:      true,
	}
}

// AddError records a validation failure and marks the changeset invalid.
func (c *Changeset) AddError(field, message string) *Changeset {
	c.Errors = append(c.Errors, FieldError{Field: field, Message: message})
	c.Valid = false

	return c
}

// ClearOp drops the operation tag. The flush does this before handing an
// upsert to the provider so the generic dispatch path is not re-triggered.
func (c *Changeset) ClearOp() *Changeset {
	c.Op = OpNone

	return c
}
