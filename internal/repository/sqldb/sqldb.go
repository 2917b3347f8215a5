// Package sqldb implements the repository contracts over internal/db.
// The same queries serve both the sqlite development store and the
// production postgres store; the db wrapper handles placeholder
// differences between the two.
package sqldb

import (
	"github.com/rudybnb/workforce-api/internal/db"
	"github.com/rudybnb/workforce-api/pkg/repository"
)

type SQLRepo struct {
	conn *db.DB
}

// New returns a repository backed by the given database handle.
func New(conn *db.DB) *SQLRepo {
	return &SQLRepo{conn: conn}
}

// Ensure SQLRepo implements the repository interfaces.
var (
	_ repository.WorkerRepo       = (*SQLRepo)(nil)
	_ repository.SessionRepo      = (*SQLRepo)(nil)
	_ repository.JobRepo          = (*SQLRepo)(nil)
	_ repository.ConversationRepo = (*SQLRepo)(nil)
)
