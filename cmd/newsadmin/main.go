// Command newsadmin manages administrator accounts.
//
//	newsadmin hash [--password PW]                   print a bcrypt hash
//	newsadmin create-admin --email E [--password PW] create or reset an admin
//	newsadmin migrate [--down]                       create (or drop) the tables
//
// When --password is omitted the password is read from the first line of
// standard input. DATABASE_URL and BCRYPT_COST are read from the environment
// or a .env file.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	pgRepo "newsdesk/internal/infra/adapter/persistence/postgres"
	"newsdesk/internal/infra/db"
	"newsdesk/internal/repository"
	authservice "newsdesk/internal/service/auth"
	pkgconfig "newsdesk/pkg/config"
	"newsdesk/pkg/security/password"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var errUsage = errors.New("usage: newsadmin <hash|create-admin|migrate> [flags]")

// env carries the process dependencies so commands can be tested.
type env struct {
	In   io.Reader
	Out  io.Writer
	Cost int
	// OpenDB returns the database handle; only create-admin and migrate use it.
	OpenDB func(ctx context.Context) (*sql.DB, error)
	// Users overrides the admin store built from OpenDB.
	Users repository.AdminUserRepository
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "load .env:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e := &env{
		In:   os.Stdin,
		Out:  os.Stdout,
		Cost: pkgconfig.GetEnvInt("BCRYPT_COST", password.DefaultCost),
		OpenDB: func(ctx context.Context) (*sql.DB, error) {
			return db.Open(ctx, os.Getenv("DATABASE_URL"), db.DefaultConnectionConfig())
		},
	}
	if err := run(ctx, os.Args[1:], e); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// run executes the command line args (without the program name).
func run(ctx context.Context, args []string, e *env) error {
	if args == nil {
		args = []string{}
	}
	root := newRootCmd(e)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "newsadmin",
		Short:         "Manage newsdesk administrators and schema",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
			}
			return nil
		},
		RunE: func(*cobra.Command, []string) error { return errUsage },
	}
	root.SetIn(e.In)
	root.SetOut(e.Out)
	root.AddCommand(newHashCmd(e), newCreateAdminCmd(e), newMigrateCmd(e))
	return root
}

func newHashCmd(e *env) *cobra.Command {
	var pw string
	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plain, err := passwordFrom(pw, e.In)
			if err != nil {
				return err
			}
			hash, err := password.NewHasher(e.Cost).Hash(plain)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(e.Out, hash)
			return err
		},
	}
	cmd.Flags().StringVarP(&pw, "password", "p", "", "password to hash (default: read from stdin)")
	return cmd
}

func newCreateAdminCmd(e *env) *cobra.Command {
	var email, pw string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account or reset its password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(email) == "" {
				return fmt.Errorf("--email is required: %w", errUsage)
			}
			plain, err := passwordFrom(pw, e.In)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			users := e.Users
			if users == nil {
				database, err := e.OpenDB(ctx)
				if err != nil {
					return err
				}
				defer func() { _ = database.Close() }()
				users = pgRepo.NewAdminUserRepo(database)
			}

			svc := &authservice.Service{Users: users, Hasher: password.NewHasher(e.Cost)}
			user, err := svc.Provision(ctx, email, plain)
			if err != nil {
				return err
			}
			slog.Info("admin account ready", slog.String("email", user.Email))
			_, err = fmt.Fprintf(e.Out, "admin %s ready\n", user.Email)
			return err
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "admin email address (required)")
	cmd.Flags().StringVarP(&pw, "password", "p", "", "admin password (default: read from stdin)")
	return cmd
}

func newMigrateCmd(e *env) *cobra.Command {
	var down bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the tables, or drop them with --down",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			database, err := e.OpenDB(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if down {
				if err := db.MigrateDown(database); err != nil {
					return err
				}
				_, err = fmt.Fprintln(e.Out, "tables dropped")
				return err
			}
			if err := db.MigrateUp(database); err != nil {
				return err
			}
			_, err = fmt.Fprintln(e.Out, "migrations applied")
			return err
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "drop the tables instead (deletes all data)")
	return cmd
}

// passwordFrom returns flagValue, or the first line of in when it is empty.
func passwordFrom(flagValue string, in io.Reader) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", password.ErrEmptyPassword
	}
	return line, nil
}
