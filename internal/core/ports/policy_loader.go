package ports

import "go.trai.ch/policy/internal/core/domain"

// PolicyLoader defines the interface for loading a policy definition.
//
//go:generate go run go.uber.org/mock/mockgen -source=policy_loader.go -destination=mocks/mock_policy_loader.go -package=mocks
type PolicyLoader interface {
	// Load reads and validates the policy file at path.
	Load(path string) (*domain.PolicyDefinition, error)
}
