package ecto

import (
	"github.com/bonfire-networks/bonfire-ecto/pkg/ecto/changeset"
	"github.com/bonfire-networks/bonfire-ecto/pkg/ecto/repo"
	"github.com/bonfire-networks/bonfire-ecto/pkg/epic"
)

// resolutionKind is the closed set of shapes a registered key can resolve to.
type resolutionKind int

const (
	resolvedChangeset resolutionKind = iota
	resolvedEntity
	resolvedEntityList
	resolvedMissing
	resolvedUnknown
)

// resolution is what one registered key held at flush time, computed once and
// matched exhaustively by the flush.
type resolution struct {
	key       string
	kind      resolutionKind
	changeset *changeset.Changeset
	entity    any
	entities  []any
}

// pendingInvalid reports whether any currently-registered key holds a
// changeset that already failed validation. A boundary whose queued work is
// known to fail never opens a transaction.
func pendingInvalid(ectx *epic.Context) bool {
	for _, key := range ectx.Pending {
		res := resolveKey(ectx, key)
		if res.kind == resolvedChangeset && !res.changeset.Valid {
			return true
		}
	}

	return false
}

func resolveKey(ectx *epic.Context, key string) resolution {
	value, ok := ectx.Value(key)
	if !ok || value == nil {
		return resolution{key: key, kind: resolvedMissing}
	}

	switch val := value.(type) {
	case *changeset.Changeset:
		return resolution{key: key, kind: resolvedChangeset, changeset: val}
	case repo.Entity:
		return resolution{key: key, kind: resolvedEntity, entity: val}
	case []repo.Entity:
		entities := make([]any, 0, len(val))
		for _, e := range val {
			entities = append(entities, e)
		}

		return resolution{key: key, kind: resolvedEntityList, entities: entities}
	case []any:
		for _, elem := range val {
			if _, isEntity := elem.(repo.Entity); !isEntity {
				return resolution{key: key, kind: resolvedUnknown}
			}
		}

		return resolution{key: key, kind: resolvedEntityList, entities: val}
	}

	return resolution{key: key, kind: resolvedUnknown}
}
