package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/yigit/greenfield/internal/app/migrations"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/app/models/dto"
	appRepos "github.com/yigit/greenfield/internal/app/repositories"
	"github.com/yigit/greenfield/internal/app/services"
	"github.com/yigit/greenfield/internal/config"
	"github.com/yigit/greenfield/internal/db"
	"github.com/yigit/greenfield/internal/pkg/email"
	"github.com/yigit/greenfield/internal/pkg/events"
	"github.com/yigit/greenfield/internal/seed"
)

var errEmptyPassword = errors.New("password must not be empty")

// userCreator is what create-admin needs from the user service
type userCreator interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*models.User, error)
}

type commandLine struct {
	cfg          *config.Config
	logger       zerolog.Logger
	stdout       io.Writer
	readPassword func(fd int) ([]byte, error)
	now          func() time.Time
	// users opens a user service and returns a func releasing it
	users func(ctx context.Context) (userCreator, func(), error)
}

func newCommandLine(cfg *config.Config, logger zerolog.Logger) *commandLine {
	cl := &commandLine{
		cfg:          cfg,
		logger:       logger,
		stdout:       os.Stdout,
		readPassword: term.ReadPassword,
		now:          time.Now,
	}
	cl.users = func(ctx context.Context) (userCreator, func(), error) {
		pg, err := db.NewPostgresDB(ctx, cl.cfg)
		if err != nil {
			return nil, nil, err
		}
		repos := appRepos.NewRepositories(pg)
		mailer := email.NewEmailService(email.Config{
			APIKey:    cl.cfg.Email.APIKey,
			FromName:  cl.cfg.Email.FromName,
			FromEmail: cl.cfg.Email.FromEmail,
			PortalURL: cl.cfg.Server.PublicURL,
		}, cl.logger)
		svc := services.NewUserService(repos.UserRepository, repos.CourseRepository, mailer, events.LogPublisher{Logger: cl.logger}, cl.logger)
		return svc, pg.Close, nil
	}
	return cl
}

func (cl *commandLine) app() *cli.App {
	return &cli.App{
		Name:      "admin",
		Usage:     "Greenfield portal administration",
		Writer:    cl.stdout,
		ErrWriter: cl.stdout,
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "apply or inspect database migrations",
				Subcommands: []*cli.Command{
					{Name: "up", Usage: "apply all pending migrations", Action: cl.migrate(func(ctx context.Context, m *migrations.Migrator) error { return m.Up(ctx) })},
					{Name: "down", Usage: "roll back the latest migration", Action: cl.migrate(func(ctx context.Context, m *migrations.Migrator) error { return m.Down(ctx) })},
					{Name: "status", Usage: "print migration status", Action: cl.migrate(func(ctx context.Context, m *migrations.Migrator) error { return m.Status(ctx) })},
					{Name: "version", Usage: "print the current schema version", Action: cl.migrate(cl.printVersion)},
				},
			},
			{
				Name:  "seed",
				Usage: "replace all data with the demo data set",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "do not ask for confirmation"},
				},
				Action: cl.seed,
			},
			{
				Name:  "create-admin",
				Usage: "create an administrator account; the password is prompted",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "login email", Required: true},
					&cli.StringFlag{Name: "first-name", Value: "System"},
					&cli.StringFlag{Name: "last-name", Value: "Administrator"},
				},
				Action: cl.createAdmin,
			},
		},
	}
}

func (cl *commandLine) migrate(run func(context.Context, *migrations.Migrator) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		pg, err := db.NewPostgresDB(c.Context, cl.cfg)
		if err != nil {
			return err
		}
		defer pg.Close()

		m, err := migrations.NewMigrator(pg.Pool, cl.logger)
		if err != nil {
			return err
		}
		defer m.Close()

		return run(c.Context, m)
	}
}

func (cl *commandLine) printVersion(ctx context.Context, m *migrations.Migrator) error {
	v, err := m.Version(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cl.stdout, "schema version %d\n", v)
	return err
}

func (cl *commandLine) seed(c *cli.Context) error {
	if !c.Bool("yes") {
		return fmt.Errorf("seeding deletes all existing data; rerun with --yes to confirm")
	}

	pg, err := db.NewPostgresDB(c.Context, cl.cfg)
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := seed.Run(c.Context, pg, cl.logger, cl.now()); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cl.stdout, "seeded demo data; every account uses password %q\n", seed.DefaultPassword)
	return err
}

func (cl *commandLine) createAdmin(c *cli.Context) error {
	fmt.Fprint(cl.stdout, "Enter password: ")
	pwd, err := cl.readPassword(int(syscall.Stdin))
	fmt.Fprintln(cl.stdout)
	if err != nil {
		return err
	}
	if len(pwd) == 0 {
		return errEmptyPassword
	}

	users, release, err := cl.users(c.Context)
	if err != nil {
		return err
	}
	defer release()

	admin, err := users.CreateUser(c.Context, dto.CreateUserRequest{
		Email:     c.String("email"),
		Password:  string(pwd),
		FirstName: c.String("first-name"),
		LastName:  c.String("last-name"),
		Role:      string(models.RoleAdmin),
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cl.stdout, "created admin %s with role ID %s\n", admin.Email, admin.RoleID)
	return err
}
