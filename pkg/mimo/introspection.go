package mimo

import (
	"github.com/aretw0/introspection"

	"github.com/aretw0/mimo/pkg/validate"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Strict          bool   `json:"strict"`
	SnapshotSizeCap int    `json:"snapshot_size_cap"`
	ContractPath    string `json:"contract_path,omitempty"`
	LastChecked     int    `json:"last_checked"`
	LastFailed      int    `json:"last_failed"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sizeCap := s.opts.sizeCap
	if sizeCap < 0 {
		sizeCap = validate.DefaultSnapshotSizeCap
	}

	return ServiceState{
		Strict:          s.opts.strict,
		SnapshotSizeCap: sizeCap,
		ContractPath:    s.opts.contractPath,
		LastChecked:     s.lastChecked,
		LastFailed:      s.lastFailed,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
