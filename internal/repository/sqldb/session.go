package sqldb

import (
	"context"
	"database/sql"
	"time"

	"github.com/rudybnb/workforce-api/pkg/models"
)

// ListSessionsByContractor returns the contractor's work sessions from
// since onward, newest first. Timestamps are compared in UTC, matching
// how the clock-in flow writes them.
func (r *SQLRepo) ListSessionsByContractor(ctx context.Context, contractorName string, since time.Time) ([]models.WorkSession, error) {
	rows, err := r.conn.Query(ctx, `SELECT id, contractor_name, start_time, end_time, total_hours, job_site_location FROM work_sessions WHERE contractor_name = ? AND start_time >= ? ORDER BY start_time DESC`, contractorName, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.WorkSession
	for rows.Next() {
		var s models.WorkSession
		var end sql.NullTime
		var hours, location sql.NullString
		if err := rows.Scan(&s.ID, &s.ContractorName, &s.StartTime, &end, &hours, &location); err != nil {
			return nil, err
		}
		if end.Valid {
			t := end.Time
			s.EndTime = &t
		}
		s.TotalHours = hours.String
		s.Location = location.String
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}
