package sqldb

import (
	"context"
	"database/sql"

	"github.com/rudybnb/workforce-api/pkg/models"
)

// ListJobsByContractor returns the contractor's jobs, newest first.
func (r *SQLRepo) ListJobsByContractor(ctx context.Context, contractorName string) ([]models.Job, error) {
	rows, err := r.conn.Query(ctx, `SELECT id, contractor_name, title, location, description, status, due_date, phases, amount FROM jobs WHERE contractor_name = ? ORDER BY id DESC`, contractorName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		var j models.Job
		var location, description, dueDate, phases sql.NullString
		var amount sql.NullFloat64
		if err := rows.Scan(&j.ID, &j.ContractorName, &j.Title, &location, &description, &j.Status, &dueDate, &phases, &amount); err != nil {
			return nil, err
		}
		j.Location = location.String
		j.Description = description.String
		j.DueDate = dueDate.String
		j.Phases = phases.String
		j.Amount = amount.Float64
		jobs = append(jobs, j)
	}

	return jobs, rows.Err()
}
