// Package delivery defines the contract every transport entrypoint satisfies.
package delivery

import "context"

// Delivery is a blocking transport server. Serve returns when the server
// stops, with the error that caused it to stop.
type Delivery interface {
	Serve(ctx context.Context) error
}
