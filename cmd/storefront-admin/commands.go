package main

import (
	"fmt"
	"storefront/validator"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("schema is up to date"))
			return nil
		},
	}
}

func newCreateSuperAdminCmd(opts *rootOptions) *cobra.Command {
	var email, name, password string

	cmd := &cobra.Command{
		Use:   "create-super-admin",
		Short: "Create a super admin, or promote an existing user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validator.CheckPassword(password); err != nil {
				return err
			}

			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			user, created, err := e.auth.CreateSuperAdmin(strings.TrimSpace(email), strings.TrimSpace(name), password)
			if err != nil {
				return err
			}

			if created {
				fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("created super admin"), user.Email, user.ID)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("promoted existing user to super admin"), user.Email, user.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&name, "name", "Super Admin", "display name")
	cmd.Flags().StringVar(&password, "password", "", "password, at least 8 characters (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newResetPasswordCmd(opts *rootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password for a user and sign out their sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validator.CheckPassword(password); err != nil {
				return err
			}

			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			user, err := e.auth.ResetPassword(strings.TrimSpace(email), password)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("password reset"), user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "new password, at least 8 characters (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newListUsersCmd(opts *rootOptions) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list-users",
		Short: "List user accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			users, err := e.repo.ListUsers(limit, offset)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(users))
			for _, u := range users {
				status := "active"
				if u.Disabled {
					status = "disabled"
				}
				lastLogin := "-"
				if u.LastLoginAt != nil {
					lastLogin = u.LastLoginAt.Format("2006-01-02 15:04")
				}
				rows = append(rows, []string{u.ID, u.Email, u.Name, string(u.Role), status, lastLogin})
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return headerStyle
					}
					return cellStyle
				}).
				Headers("ID", "EMAIL", "NAME", "ROLE", "STATUS", "LAST LOGIN").
				Rows(rows...)

			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			fmt.Fprintf(cmd.OutOrStdout(), "%d user(s)\n", len(users))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "maximum number of users")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of users to skip")

	return cmd
}
