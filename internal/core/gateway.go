package core

import "context"

// InvoiceGateway persists invoices on the backend. Implementations attach the
// session credential and return ErrUnauthenticated when there is none,
// *GatewayError for non-success responses and *TransportError for network failures.
type InvoiceGateway interface {
	List(ctx context.Context) ([]InvoiceRecord, error)
	Get(ctx context.Context, id string) (*InvoiceRecord, error)
	Create(ctx context.Context, record InvoiceRecord) (*SaveResult, error)
	Update(ctx context.Context, id string, record InvoiceRecord) (*SaveResult, error)
	Delete(ctx context.Context, id string) error
}
