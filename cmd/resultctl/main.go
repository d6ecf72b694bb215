package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/yigit/resultdesk/internal/app/form"
	"github.com/yigit/resultdesk/internal/app/grading"
	appMigrations "github.com/yigit/resultdesk/internal/app/migrations"
	"github.com/yigit/resultdesk/internal/app/models"
	"github.com/yigit/resultdesk/internal/bootstrap"
	"github.com/yigit/resultdesk/internal/config"
	"github.com/yigit/resultdesk/internal/db"
	"github.com/yigit/resultdesk/internal/pkg/logger"
	"github.com/yigit/resultdesk/internal/seed"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("resultctl failed")
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "resultctl",
		Usage:  "maintenance commands for the result management service",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "configs/config.yaml",
				Usage:   "path to the YAML configuration",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			seedCommand(),
			gradeCommand(),
			validateCommand(),
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	bootstrap.ConfigureLogger(cfg)
	return cfg, nil
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply pending SQL migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Usage: "migrations directory (defaults to database.migrations_dir)"},
			&cli.BoolFlag{Name: "list", Usage: "only list the migration files"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if dir := c.String("dir"); dir != "" {
				cfg.Database.MigrationsDir = dir
			}

			if c.Bool("list") {
				files, err := appMigrations.PendingFiles(cfg.Database.MigrationsDir)
				if err != nil {
					return err
				}
				for _, f := range files {
					fmt.Fprintln(c.App.Writer, appMigrations.Version(f))
				}
				return nil
			}

			ctx := c.Context
			database, err := db.NewPostgresDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			return bootstrap.RunMigrations(ctx, cfg, database.Pool, logger.Get())
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "insert demo students into an empty database",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			ctx := c.Context
			database, err := db.NewPostgresDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			return seed.CreateDemoStudents(ctx, database.Pool, logger.Get())
		},
	}
}

func gradeCommand() *cli.Command {
	return &cli.Command{
		Name:      "grade",
		Usage:     "print the letter grade for marks",
		ArgsUsage: "<marks>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("expected exactly one marks argument", 2)
			}
			grade := grading.DeriveGradeText(c.Args().First())
			if grade == grading.GradeNone {
				return cli.Exit(fmt.Sprintf("%q is not a number of marks", c.Args().First()), 1)
			}
			fmt.Fprintln(c.App.Writer, grade)
			return nil
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "check a student record with the form rules",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name"},
			&cli.StringFlag{Name: "section", Value: string(models.DefaultSection)},
			&cli.StringFlag{Name: "marks"},
		},
		Action: func(c *cli.Context) error {
			return runValidate(context.Background(), c.App.Writer, c.String("name"), c.String("section"), c.String("marks"))
		},
	}
}

// runValidate drives a throwaway form through the same change and submit path as the HTTP form
func runValidate(ctx context.Context, out io.Writer, name, section, marks string) error {
	var saved *form.Draft
	f := form.NewStudentForm(nil, form.HandlerFuncs{
		Submit: func(_ context.Context, d form.Draft) error {
			saved = &d
			return nil
		},
	})

	for _, edit := range []struct {
		field form.Field
		value string
	}{
		{form.FieldName, name},
		{form.FieldSection, section},
		{form.FieldMarks, marks},
	} {
		if err := f.Change(edit.field, edit.value); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}

	if _, err := f.Submit(ctx); err != nil {
		return err
	}

	if saved == nil {
		msgs := f.Errors().Messages()
		fields := make([]string, 0, len(msgs))
		for field := range msgs {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(out, "%s: %s\n", field, msgs[field])
		}
		return cli.Exit("invalid record", 1)
	}

	fmt.Fprintf(out, "ok: %s %s %s -> %s\n", saved.Name, saved.Section, saved.Marks, saved.Grade)
	return nil
}
