package trigger

import (
	"fmt"

	"github.com/sendblocks/custom-indexer-example/internal/adapter"
	"github.com/sendblocks/custom-indexer-example/internal/domain"
)

// Trigger is one registered contract subscription. The registry file is the
// repository-side half of the platform's trigger configuration. The platform
// is assumed to deliver a contract's logs in emission order; nothing on this
// side reorders or reconciles them.
type Trigger struct {
	Name            string `json:"name"`
	ContractAddress string `json:"contract_address"`
	Description     string `json:"description,omitempty"`
}

// Registry defines the interface for trigger lookups by contract address
//
//go:generate mockgen -source=registry.go -destination=../mocks/trigger_registry.go -package=mocks -mock_names=Registry=MockTriggerRegistry
type Registry interface {
	// Match returns the trigger registered for a contract address.
	// Matching is case-insensitive on the hex address.
	Match(contractAddress string) (*Trigger, bool)

	// Triggers returns all registered triggers
	Triggers() []Trigger
}

// registry is the internal implementation of Registry
type registry struct {
	triggers []Trigger
	// Fast lookup map: normalized contract address -> index into triggers
	byAddress map[string]int
}

// RegistryLoader loads trigger registries from JSON files
type RegistryLoader struct {
	fs   adapter.FileSystem
	json adapter.JSON
}

// NewRegistryLoader creates a loader backed by the given adapters
func NewRegistryLoader(fs adapter.FileSystem, json adapter.JSON) *RegistryLoader {
	return &RegistryLoader{fs: fs, json: json}
}

// Load reads and indexes a trigger registry from a JSON file
func (l *RegistryLoader) Load(filePath string) (Registry, error) {
	data, err := l.fs.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read trigger file: %w", err)
	}

	var triggers []Trigger
	if err := l.json.Unmarshal(data, &triggers); err != nil {
		return nil, fmt.Errorf("failed to parse trigger JSON: %w", err)
	}

	return New(triggers)
}

// New builds a registry from already-loaded triggers. Every trigger must carry
// a valid hex contract address.
func New(triggers []Trigger) (Registry, error) {
	r := &registry{
		triggers:  triggers,
		byAddress: make(map[string]int, len(triggers)),
	}

	for i, t := range triggers {
		addr, err := domain.NormalizeAddress(t.ContractAddress)
		if err != nil {
			return nil, fmt.Errorf("trigger %q has invalid contract address %q: %w", t.Name, t.ContractAddress, err)
		}
		r.byAddress[addr] = i
	}

	return r, nil
}

// Match returns the trigger registered for a contract address
func (r *registry) Match(contractAddress string) (*Trigger, bool) {
	if r == nil {
		return nil, false
	}

	addr, err := domain.NormalizeAddress(contractAddress)
	if err != nil {
		return nil, false
	}

	i, ok := r.byAddress[addr]
	if !ok {
		return nil, false
	}
	return &r.triggers[i], true
}

// Triggers returns all registered triggers
func (r *registry) Triggers() []Trigger {
	if r == nil {
		return nil
	}
	return r.triggers
}
