package patient

import "context"

// Repository persists the whole collection. Save replaces everything that was
// stored before; there are no partial writes.
type Repository interface {
	Load(ctx context.Context) ([]Patient, error)
	Save(ctx context.Context, patients []Patient) error
}

// EventPublisher delivers change notifications after a mutation is persisted.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body interface{}) error
}
