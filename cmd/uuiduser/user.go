// SPDX-License-Identifier: MIT
// Copyright 2026 UNB Services

package main

import (
	"context"
	"fmt"
	"syscall"
	"text/tabwriter"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/unbservices/uuiduser/internal/admin"
	"github.com/unbservices/uuiduser/internal/config"
	"github.com/unbservices/uuiduser/internal/identity"
	identitypg "github.com/unbservices/uuiduser/internal/identity/postgres"
	"github.com/unbservices/uuiduser/internal/store"
)

// appDeps bundles the wired services behind the user subcommands.
type appDeps struct {
	users    identity.UserRepository
	userSvc  *identity.UserService
	admin    *admin.Service
	auth     *identity.Authenticator
	resetSvc *identity.PasswordResetService
	close    func()
}

// buildDeps connects to the database and wires the identity services.
// Replaced in tests.
var buildDeps = func(ctx context.Context, cfg *config.Config) (*appDeps, error) {
	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	users := identitypg.NewUserRepository(pool)
	resets := identitypg.NewPasswordResetRepository(pool)
	hasher := identity.NewArgon2idHasher()

	userSvc, err := identity.NewUserService(users, hasher)
	if err != nil {
		pool.Close()
		return nil, err
	}
	adminSvc, err := admin.NewService(users, hasher)
	if err != nil {
		pool.Close()
		return nil, err
	}
	auth, err := identity.NewAuthenticator(users, nil, hasher, cfg.AuthResolverConfig())
	if err != nil {
		pool.Close()
		return nil, err
	}
	resetSvc, err := identity.NewPasswordResetService(users, nil, resets, hasher)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &appDeps{
		users:    users,
		userSvc:  userSvc,
		admin:    adminSvc,
		auth:     auth,
		resetSvc: resetSvc,
		close:    pool.Close,
	}, nil
}

// NewUserCmd creates the user subcommand tree.
func NewUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage identities",
	}

	cmd.PersistentFlags().String("database_url", "", "PostgreSQL connection URL")

	cmd.AddCommand(newUserCreateCmd(false))
	cmd.AddCommand(newUserCreateCmd(true))
	cmd.AddCommand(newUserListCmd())
	cmd.AddCommand(newUserShowCmd())
	cmd.AddCommand(newUserSetPasswordCmd())
	cmd.AddCommand(newUserDeleteCmd())
	cmd.AddCommand(newUserAuthenticateCmd())

	return cmd
}

// withDeps loads config, wires services, runs fn and cleans up.
func withDeps(cmd *cobra.Command, fn func(ctx context.Context, deps *appDeps) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	deps, err := buildDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.close()

	return fn(ctx, deps)
}

// readPassword prompts for a password without echo when stdin is a
// terminal. The --password flag bypasses the prompt for scripting.
func readPassword(cmd *cobra.Command, confirm bool) (string, error) {
	if flag := cmd.Flags().Lookup("password"); flag != nil && flag.Changed {
		return flag.Value.String(), nil
	}

	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", oops.Code("CLI_NO_TERMINAL").
			Errorf("stdin is not a terminal; use --password")
	}

	cmd.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	cmd.Println()
	if err != nil {
		return "", oops.Code("CLI_READ_PASSWORD_FAILED").Wrap(err)
	}
	if !confirm {
		return string(password), nil
	}

	cmd.Print("Confirm password: ")
	again, err := term.ReadPassword(int(syscall.Stdin))
	cmd.Println()
	if err != nil {
		return "", oops.Code("CLI_READ_PASSWORD_FAILED").Wrap(err)
	}
	if string(password) != string(again) {
		return "", oops.Code("CLI_PASSWORD_MISMATCH").Errorf("passwords do not match")
	}
	return string(password), nil
}

func newUserCreateCmd(superuser bool) *cobra.Command {
	use := "create"
	short := "Create an identity"
	if superuser {
		use = "createsuperuser"
		short = "Create a superuser identity"
	}

	var (
		username  string
		name      string
		shortName string
		staff     bool
		noPass    bool
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDeps(cmd, func(ctx context.Context, deps *appDeps) error {
				params := identity.CreateUserParams{
					Username:  username,
					Name:      name,
					ShortName: shortName,
					IsStaff:   staff,
				}
				if !noPass {
					password, err := readPassword(cmd, true)
					if err != nil {
						return err
					}
					params.Password = password
				}

				var (
					user *identity.User
					err  error
				)
				if superuser {
					user, err = deps.userSvc.CreateSuperuser(ctx, params)
				} else {
					user, err = deps.userSvc.Create(ctx, params)
				}
				if err != nil {
					return err
				}

				cmd.Printf("Created %s\n", user.UUID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "optional username")
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&shortName, "short-name", "", "short display name")
	cmd.Flags().String("password", "", "password (prompts when omitted)")
	cmd.Flags().BoolVar(&noPass, "no-password", false, "create without a usable password")
	if !superuser {
		cmd.Flags().BoolVar(&staff, "staff", false, "grant staff status")
	}

	return cmd
}

func newUserListCmd() *cobra.Command {
	var (
		search    string
		active    bool
		staff     bool
		superuser bool
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List identities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDeps(cmd, func(ctx context.Context, deps *appDeps) error {
				opts := admin.ListOptions{Search: search, Limit: limit}
				if cmd.Flags().Changed("active") {
					opts.Active = &active
				}
				if cmd.Flags().Changed("staff") {
					opts.Staff = &staff
				}
				if cmd.Flags().Changed("superuser") {
					opts.Superuser = &superuser
				}

				users, err := deps.admin.List(ctx, opts)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "UUID\tUSERNAME\tNAME\tACTIVE\tSTAFF\tSUPERUSER")
				for _, u := range users {
					fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%t\t%t\n",
						u.UUID, u.Username, u.FullName(), u.IsActive, u.IsStaff, u.IsSuperuser)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "glob pattern over username and names")
	cmd.Flags().BoolVar(&active, "active", false, "filter by active flag")
	cmd.Flags().BoolVar(&staff, "staff", false, "filter by staff flag")
	cmd.Flags().BoolVar(&superuser, "superuser", false, "filter by superuser flag")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (0 for all)")

	return cmd
}

func newUserShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <uuid|username>",
		Short: "Show an identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(ctx context.Context, deps *appDeps) error {
				user, err := deps.admin.Get(ctx, args[0])
				if err != nil {
					return err
				}

				cmd.Printf("UUID:        %s\n", user.UUID)
				cmd.Printf("Username:    %s\n", user.Username)
				cmd.Printf("Name:        %s\n", user.FullName())
				cmd.Printf("Short name:  %s\n", user.ShortDisplayName())
				cmd.Printf("Active:      %t\n", user.IsActive)
				cmd.Printf("Staff:       %t\n", user.IsStaff)
				cmd.Printf("Superuser:   %t\n", user.IsSuperuser)
				cmd.Printf("Password:    usable=%t\n", user.HasUsablePassword())
				if user.LastLogin != nil {
					cmd.Printf("Last login:  %s\n", user.LastLogin.Format("2006-01-02 15:04:05 MST"))
				} else {
					cmd.Println("Last login:  never")
				}
				cmd.Printf("Date joined: %s\n", user.DateJoined.Format("2006-01-02 15:04:05 MST"))
				return nil
			})
		},
	}
}

func newUserSetPasswordCmd() *cobra.Command {
	var unusable bool

	cmd := &cobra.Command{
		Use:   "set-password <uuid|username>",
		Short: "Replace an identity's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(ctx context.Context, deps *appDeps) error {
				if unusable {
					if err := deps.admin.SetUnusablePassword(ctx, args[0]); err != nil {
						return err
					}
					cmd.Println("Password disabled")
					return nil
				}

				password, err := readPassword(cmd, true)
				if err != nil {
					return err
				}
				if err := deps.admin.SetPassword(ctx, args[0], password); err != nil {
					return err
				}
				cmd.Println("Password updated")
				return nil
			})
		},
	}

	cmd.Flags().String("password", "", "password (prompts when omitted)")
	cmd.Flags().BoolVar(&unusable, "unusable", false, "disable password authentication")

	return cmd
}

func newUserDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <uuid|username>",
		Short: "Delete an identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(ctx context.Context, deps *appDeps) error {
				if !yes {
					return oops.Code("CLI_CONFIRM_REQUIRED").
						Errorf("deletion is permanent; pass --yes to confirm")
				}
				if err := deps.admin.Delete(ctx, args[0]); err != nil {
					return err
				}
				cmd.Println("Deleted")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")

	return cmd
}

func newUserAuthenticateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authenticate <identifier>",
		Short: "Check credentials against the store",
		Long: `Authenticate an identifier and password the way the resolver would,
including the email fallback when an email resolver is configured.
Exits non-zero on invalid credentials.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(ctx context.Context, deps *appDeps) error {
				password, err := readPassword(cmd, false)
				if err != nil {
					return err
				}

				user, err := deps.auth.Authenticate(ctx, args[0], password, nil)
				if err != nil {
					return err
				}
				if user == nil {
					return oops.Code("AUTH_INVALID_CREDENTIALS").
						Errorf("no identifier to authenticate")
				}

				cmd.Printf("Authenticated %s\n", user.UUID)
				return nil
			})
		},
	}

	cmd.Flags().String("password", "", "password (prompts when omitted)")

	return cmd
}
