package registry

import "TaPulse/internal/domain/models"

// ConfigRegistry is a SymbolRegistry backed by the static watchlist from
// configuration. List preserves the configured order, duplicates included;
// dedup is the aggregator's concern.
type ConfigRegistry struct {
	refs []models.SymbolRef
}

func New(refs []models.SymbolRef) *ConfigRegistry {
	return &ConfigRegistry{refs: refs}
}

func (r *ConfigRegistry) List() []models.SymbolRef {
	out := make([]models.SymbolRef, len(r.refs))
	copy(out, r.refs)
	return out
}
