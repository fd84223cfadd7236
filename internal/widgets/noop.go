package widgets

import (
	"context"

	"github.com/google/uuid"
)

// NewNoOpService returns a Service that reports ErrFeatureDisabled for every write and
// empty results for reads.
func NewNoOpService() Service {
	return noopService{}
}

type noopService struct{}

func (noopService) RegisterDefinition(context.Context, RegisterDefinitionInput) (*Definition, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) GetDefinitionByName(context.Context, string) (*Definition, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) ListDefinitions(context.Context) ([]*Definition, error) {
	return nil, nil
}

func (noopService) SyncRegistry(context.Context) error {
	return nil
}

func (noopService) CreateInstance(context.Context, CreateInstanceInput) (*Instance, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) UpdateInstance(context.Context, UpdateInstanceInput) (*Instance, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) GetInstance(context.Context, uuid.UUID) (*Instance, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) ListInstancesBySite(context.Context, uuid.UUID) ([]*Instance, error) {
	return nil, nil
}

func (noopService) ListInstancesBySlot(context.Context, uuid.UUID, string) ([]*Instance, error) {
	return nil, nil
}

func (noopService) DeleteInstance(context.Context, uuid.UUID) error {
	return ErrFeatureDisabled
}

func (noopService) SaveConfiguration(context.Context, uuid.UUID, map[string]any) (*Instance, error) {
	return nil, ErrFeatureDisabled
}
