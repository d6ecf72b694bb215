package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/yigit/resultdesk/internal/app/grading"
	"github.com/yigit/resultdesk/internal/app/models"
	"github.com/yigit/resultdesk/internal/db"
)

var demoRecords = []struct {
	name    string
	section models.Section
	marks   float64
}{
	{"Alice Martin", models.Section3CA, 94},
	{"Bruno Costa", models.Section3CA, 81.5},
	{"Chloe Nguyen", models.Section3CB, 72},
	{"Dev Patel", models.Section3CB, 60},
	{"Elena Rossi", models.Section3CC, 45},
}

// DemoStudents returns the demo records with their derived grades
func DemoStudents() []models.Student {
	out := make([]models.Student, 0, len(demoRecords))
	for _, r := range demoRecords {
		out = append(out, models.Student{
			Name:    r.name,
			Section: r.section,
			Marks:   r.marks,
			Grade:   string(grading.DeriveGrade(r.marks)),
		})
	}
	return out
}

// CreateDemoStudents inserts the demo records when the students table is empty.
// Every insert runs in one transaction; failures are collected and returned together.
func CreateDemoStudents(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	sb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	return db.WithTransaction(ctx, dbPool, func(ctx context.Context, tx pgx.Tx) error {
		var count int64
		if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM students").Scan(&count); err != nil {
			return fmt.Errorf("error counting students: %w", err)
		}
		if count > 0 {
			lgr.Info().Int64("students", count).Msg("Students already present, skipping demo data")
			return nil
		}

		lgr.Info().Msg("Creating demo students...")
		var finalErr error
		for _, s := range DemoStudents() {
			sql, args, err := sb.Insert("students").
				Columns("name", "section", "marks", "grade").
				Values(s.Name, string(s.Section), s.Marks, s.Grade).
				ToSql()
			if err != nil {
				finalErr = errors.Join(finalErr, err)
				continue
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				lgr.Error().Err(err).Str("name", s.Name).Msg("Error creating demo student")
				finalErr = errors.Join(finalErr, fmt.Errorf("demo student %q: %w", s.Name, err))
			}
		}
		if finalErr != nil {
			return finalErr
		}

		lgr.Info().Int("students", len(demoRecords)).Msg("Demo students created")
		return nil
	})
}
