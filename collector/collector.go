// Package collector defines the contract every source collector implements.
package collector

import "context"

// Collector fetches from one external source and overwrites its dedicated
// store. A run may complete with fewer results than requested without being
// considered failed; an error means the run itself could not complete.
type Collector interface {
	Name() string
	Collect(ctx context.Context) error
}
