package sqldb

import (
	"context"
	"database/sql"

	"github.com/rudybnb/workforce-api/pkg/models"
)

// GetByTelegramID looks up the approved application for a chat id.
// Pending and rejected applications are invisible to the API.
func (r *SQLRepo) GetByTelegramID(ctx context.Context, telegramID string) (*models.Worker, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, telegram_id, first_name, last_name, email, username, status, worker_type, admin_pay_rate, is_cis_registered FROM contractor_applications WHERE telegram_id = ? AND status = 'approved'`, telegramID)

	var w models.Worker
	var firstName, lastName, email, username, workerType, cis sql.NullString
	var rate sql.NullFloat64
	if err := row.Scan(&w.ID, &w.TelegramID, &firstName, &lastName, &email, &username, &w.Status, &workerType, &rate, &cis); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	w.FirstName = firstName.String
	w.LastName = lastName.String
	w.Email = email.String
	w.Username = username.String
	w.WorkerType = workerType.String
	w.PayRate = rate.Float64
	// The onboarding bot stores this boolean as text.
	w.CISRegistered = cis.String == "true"

	return &w, nil
}
