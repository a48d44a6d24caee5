package domain

import "github.com/yungbote/metaman/internal/domain/registry"

type Marking = registry.Marking

// Models lists every persisted type, in migration order.
func Models() []any {
	return []any{
		&Marking{},
	}
}
