package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rudybnb/workforce-api/internal/config"
	"github.com/rudybnb/workforce-api/internal/db"
)

// Seeds the local development database with the fixtures the bot team
// tests against: one sub-contractor with priced jobs and one day-rate
// worker with clocked sessions. Reruns wipe and reload the fixtures.
func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Database.Driver() != config.DriverSQLite {
		fmt.Fprintln(os.Stderr, "db_seed only loads fixtures into the local SQLite file.")
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.Database.Driver(), cfg.Database.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		fmt.Fprintf(os.Stderr, "Migration error: %v\n", err)
		os.Exit(1)
	}
	if err := seed(ctx, database); err != nil {
		fmt.Fprintf(os.Stderr, "Seed error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Development fixtures loaded.")
}

func seed(ctx context.Context, d *db.DB) error {
	for _, table := range []string{"contractor_applications", "work_sessions", "jobs", "conversation_history"} {
		if _, err := d.Exec(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	const insertWorker = `INSERT INTO contractor_applications
		(telegram_id, first_name, last_name, email, username, status, admin_pay_rate, is_cis_registered, worker_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	workers := []struct {
		telegramID string
		first      string
		last       string
		email      string
		username   string
		status     string
		rate       any
		cis        string
		workerType string
	}{
		{"7617462316", "Rudy", "Diedericks", "rudy@example.com", "rudybnb", "approved", nil, "true", "sub-contractor"},
		{"5551234", "John", "Smith", "john@example.com", "jsmith", "approved", 15.0, "true", "day-rate"},
		{"5555678", "Maria", "Lopez", "maria@example.com", "mlopez", "approved", 12.5, "false", "day-rate"},
		{"4440000", "Pat", "Pending", "", "", "pending", nil, "", "day-rate"},
	}
	for _, w := range workers {
		if _, err := d.Exec(ctx, insertWorker,
			w.telegramID, w.first, w.last, w.email, w.username, w.status, w.rate, w.cis, w.workerType); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	const insertSession = `INSERT INTO work_sessions
		(contractor_name, start_time, end_time, total_hours, job_site_location)
		VALUES (?, ?, ?, ?, ?)`
	yesterday := now.Add(-24 * time.Hour)
	threeDays := now.Add(-72 * time.Hour)
	sessions := []struct {
		name     string
		start    time.Time
		end      any
		hours    string
		location string
	}{
		{"John Smith", yesterday.Add(-7*time.Hour - 30*time.Minute), yesterday, "7:30", "Site A"},
		{"John Smith", threeDays.Add(-8 * time.Hour), threeDays, "8:00", "Site A"},
		{"John Smith", now.Add(-2 * time.Hour), nil, "", "Site B"},
		{"Maria Lopez", yesterday.Add(-6 * time.Hour), yesterday, "6:00", "Site B"},
	}
	for _, s := range sessions {
		if _, err := d.Exec(ctx, insertSession, s.name, s.start, s.end, s.hours, s.location); err != nil {
			return err
		}
	}

	const insertJob = `INSERT INTO jobs
		(contractor_name, title, location, description, status, due_date, phases, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	jobs := []struct {
		name        string
		title       string
		location    string
		description string
		status      string
		dueDate     string
		phases      string
		amount      float64
	}{
		{"Rudy Diedericks", "Garden wall rebuild", "8 Elm Close", "Rebuild collapsed boundary wall", "pending", "", "", 950},
		{"Rudy Diedericks", "Bathroom refit", "3 Mill Road", "Full strip and refit", "completed", "2026-08-01", `["strip","first fix","tile","finish"]`, 2200},
		{"Rudy Diedericks", "Loft conversion", "12 Oak Lane", "Two dormers and en-suite", "assigned", "2026-09-15", `["strip","frame","board","snag"]`, 4800},
	}
	for _, j := range jobs {
		if _, err := d.Exec(ctx, insertJob,
			j.name, j.title, j.location, j.description, j.status, j.dueDate, j.phases, j.amount); err != nil {
			return err
		}
	}

	const insertMessage = `INSERT INTO conversation_history (telegram_id, role, message) VALUES (?, ?, ?)`
	messages := []struct {
		telegramID int64
		role       string
		message    string
	}{
		{7617462316, "user", "what's the status of my quotes?"},
		{7617462316, "assistant", "You have 3 quotes: 1 completed, 2 in progress."},
		{5551234, "user", "how many hours did I work this week?"},
		{5551234, "assistant", "You worked 15.5 hours this week."},
	}
	for _, m := range messages {
		if _, err := d.Exec(ctx, insertMessage, m.telegramID, m.role, m.message); err != nil {
			return err
		}
	}

	return nil
}
