// Command transportctl runs maintenance tasks against the transport office database.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yigit/buspass/internal/app/models"
	"github.com/yigit/buspass/internal/app/repositories"
	"github.com/yigit/buspass/internal/bootstrap"
	"github.com/yigit/buspass/internal/config"
	"github.com/yigit/buspass/internal/db"
	"github.com/yigit/buspass/internal/pkg/auth"
	"github.com/yigit/buspass/internal/pkg/helpers"
	"github.com/yigit/buspass/internal/pkg/logger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("transportctl failed")
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "transportctl",
		Usage: "maintain the transport office database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to the YAML config file",
				Value:   bootstrap.DefaultConfigPath,
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "apply pending schema migrations",
				Action: withDB(migrate),
			},
			{
				Name:  "createuser",
				Usage: "create an office login account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"TRANSPORTCTL_PASSWORD"}},
				},
				Action: withDB(createUser),
			},
			{
				Name:  "route",
				Usage: "manage bus routes",
				Subcommands: []*cli.Command{
					{
						Name:   "delete",
						Usage:  "delete a route; its students keep their records without a route",
						Flags:  []cli.Flag{&cli.Int64Flag{Name: "id", Required: true}},
						Action: withDB(deleteRoute),
					},
				},
			},
			{
				Name:  "student",
				Usage: "manage students",
				Subcommands: []*cli.Command{
					{
						Name:   "delete",
						Usage:  "delete a student together with all of their passes",
						Flags:  []cli.Flag{&cli.Int64Flag{Name: "id", Required: true}},
						Action: withDB(deleteStudent),
					},
					{
						Name:   "passes",
						Usage:  "list every pass issued to a student, most recent first",
						Flags:  []cli.Flag{&cli.Int64Flag{Name: "id", Required: true}},
						Action: withDB(studentPasses),
					},
				},
			},
			{
				Name:   "prune-sessions",
				Usage:  "remove expired and revoked login sessions",
				Action: withDB(pruneSessions),
			},
		},
	}
}

type action func(ctx *cli.Context, cfg *config.Config, database *db.PostgresDB) error

// withDB loads the config and opens the pool around a command
func withDB(fn action) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.LoadConfig(c.String("config"))
		if err != nil {
			return err
		}
		logger.Configure(logger.Config{Level: logger.LogLevel(cfg.Logging.Level), Pretty: true})

		database, err := db.NewPostgresDB(c.Context, cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		return fn(c, cfg, database)
	}
}

func migrate(c *cli.Context, _ *config.Config, database *db.PostgresDB) error {
	return bootstrap.RunMigrations(c.Context, database, logger.Get())
}

func createUser(c *cli.Context, _ *config.Config, database *db.PostgresDB) error {
	hash, err := auth.HashPassword(c.String("password"))
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Username: c.String("username"), PasswordHash: hash, IsActive: true}
	if _, err := repositories.NewUserRepository(database.Pool).Create(c.Context, user); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "created user %q (id %d)\n", user.Username, user.ID)
	return nil
}

func deleteRoute(c *cli.Context, _ *config.Config, database *db.PostgresDB) error {
	id := c.Int64("id")
	if err := repositories.NewRouteRepository(database.Pool).Delete(c.Context, id); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "deleted route %d\n", id)
	return nil
}

func deleteStudent(c *cli.Context, _ *config.Config, database *db.PostgresDB) error {
	id := c.Int64("id")
	if err := repositories.NewStudentRepository(database.Pool).Delete(c.Context, id); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "deleted student %d\n", id)
	return nil
}

func pruneSessions(c *cli.Context, _ *config.Config, database *db.PostgresDB) error {
	deleted, err := repositories.NewSessionRepository(database.Pool).DeleteExpired(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "removed %d sessions\n", deleted)
	return nil
}


func studentPasses(c *cli.Context, cfg *config.Config, database *db.PostgresDB) error {
	today := helpers.SystemClock(cfg.Location()).Today()
	return listPasses(c.Context, c.App.Writer, repositories.NewBusPassRepository(database.Pool), c.Int64("id"), today)
}

// listPasses prints a student's pass history as an aligned table
func listPasses(ctx context.Context, w io.Writer, passes repositories.IBusPassRepository, studentID int64, today time.Time) error {
	history, err := passes.ListForStudent(ctx, studentID)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Fprintf(w, "no passes issued to student %d\n", studentID)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PASS\tISSUED\tEXPIRES\tSTATUS")
	for _, p := range history {
		status := "active"
		if p.IsExpired(today) {
			status = "expired"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.PassNumber,
			p.IssueDate.Format(models.DateLayout), p.ExpiryDate.Format(models.DateLayout), status)
	}
	return tw.Flush()
}
