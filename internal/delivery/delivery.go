// Package delivery defines the inbound transport abstraction served by main.
package delivery

import "context"

// Delivery is a long-running inbound server. Serve blocks until the server
// stops; shutdown happens through the fx lifecycle hooks.
type Delivery interface {
	Serve(ctx context.Context) error
}
