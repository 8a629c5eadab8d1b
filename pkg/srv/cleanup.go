package srv

import "context"

// NewCleanup wraps a close function as a Service so resources like database
// handles shut down in order with everything else.
func NewCleanup(fn func() error) Service {
	return &cleanupService{fn: fn}
}

type cleanupService struct {
	fn func() error
}

func (c *cleanupService) Start(ctx context.Context) error { return nil }

func (c *cleanupService) Shutdown(ctx context.Context) error {
	if c.fn == nil {
		return nil
	}
	return c.fn()
}
