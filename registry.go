package reldb

import (
	"context"
	"database/sql"
	"sync"
)

// Driver is what a backend package (drivers/sqlite, drivers/mysql,
// drivers/postgres) registers with the core: given a parsed URI it
// opens the backend's *sql.DB and advertises its static Capability
// record.
//
// QuerySchema backs Session.QuerySchema: each backend phrases "list the
// columns of this table" differently (PRAGMA table_info vs
// information_schema.columns), so the driver supplies it directly
// rather than the core guessing a dialect.
type Driver interface {
	Capabilities() Capability
	Connect(uri URI) (*sql.DB, error)
	QuerySchema(ctx context.Context, db *sql.DB, database, table string) ([]ColumnDefinition, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Driver)
)

// RegisterDriver registers a Driver factory under a URI scheme.
// Registration is idempotent; registering the same scheme twice
// replaces the prior factory. Driver packages call this from their own
// init(), the same process-wide, init-on-first-use pattern
// database/sql itself uses for sql.Register, guarded here by a
// readers-writer lock.
func RegisterDriver(scheme string, d Driver) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[scheme] = d
}

// lookupDriver returns the Driver registered for scheme, if any.
func lookupDriver(scheme string) (Driver, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := registry[scheme]
	return d, ok
}

// RegisteredSchemes returns the URI schemes currently registered, for
// diagnostics and tests. The returned slice is a snapshot.
func RegisteredSchemes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for scheme := range registry {
		out = append(out, scheme)
	}
	return out
}
