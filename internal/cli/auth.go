package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/checklist/internal/session"
	"github.com/idilsaglam/checklist/internal/ui"
	"github.com/idilsaglam/checklist/internal/viewmodel"
)

func newLoginCmd(a *app) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the token for this API",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, false); err != nil {
				return err
			}
			if username == "" {
				u, err := a.prompt(cmd, "Username: ")
				if err != nil {
					return err
				}
				username = u
			}
			pw, err := a.password(cmd)
			if err != nil {
				return err
			}

			vm := viewmodel.NewAuth(a.deps(), a.client)
			if err := vm.Login(ctxOf(cmd), username, pw); err != nil {
				if msg := vm.State().Error; msg != "" {
					return errors.New(msg)
				}
				return err
			}
			ui.OK(cmd.OutOrStdout(), "logged in as "+username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username (prompted when omitted)")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var username, email string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" {
				return usagef("register needs --username and --email")
			}
			if err := a.setup(cmd, false); err != nil {
				return err
			}
			pw, err := a.password(cmd)
			if err != nil {
				return err
			}

			vm := viewmodel.NewAuth(a.deps(), a.client)
			if err := vm.Register(ctxOf(cmd), username, pw, email); err != nil {
				if msg := vm.State().Error; msg != "" {
					return errors.New(msg)
				}
				return err
			}
			if a.sess.Authenticated() {
				ui.OK(cmd.OutOrStdout(), "registered and logged in as "+username)
			} else {
				ui.OK(cmd.OutOrStdout(), "registered, now run `checklist login`")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, false); err != nil {
				return err
			}
			vm := viewmodel.NewChecklists(a.deps(), a.client)
			if err := vm.Logout(); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "logged out")
			if os.Getenv(session.EnvToken) != "" {
				ui.Fail(cmd.ErrOrStderr(), session.EnvToken+" is set and still authenticates")
			}
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the API and where the token comes from",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, false); err != nil {
				return err
			}
			t := ui.Current()
			lines := []string{
				t.Title.Render("Status"),
				"API:     " + a.cfg.APIURL,
			}
			info := a.sess.Info()
			if info == nil {
				lines = append(lines, "Session: "+t.Pending.Render("not logged in"))
			} else {
				saved := "unknown"
				if !info.CreatedAt.IsZero() {
					saved = humanize.Time(info.CreatedAt)
				}
				lines = append(lines,
					"Session: "+t.Success.Render("logged in"),
					fmt.Sprintf("Source:  %s", info.Source),
					"Saved:   "+saved,
				)
			}
			ui.Panel(cmd.OutOrStdout(), lines)
			return nil
		},
	}
}
