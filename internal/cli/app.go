package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/idilsaglam/checklist/internal/api"
	"github.com/idilsaglam/checklist/internal/config"
	"github.com/idilsaglam/checklist/internal/nav"
	"github.com/idilsaglam/checklist/internal/session"
	"github.com/idilsaglam/checklist/internal/ui"
	"github.com/idilsaglam/checklist/internal/viewmodel"
)

// app is what a command needs once configuration is resolved.
type app struct {
	flags *flags

	cfg    *config.Config
	logger *log.Logger
	sess   *session.Session
	client *api.Client
	router *nav.Router
	in     *bufio.Reader
	closer io.Closer
}

// setup resolves configuration and opens the session. interactive picks
// where debug logs go: the TUI owns the terminal, so they go to a file.
func (a *app) setup(cmd *cobra.Command, interactive bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.flags.api != "" {
		cfg.APIURL = strings.TrimRight(a.flags.api, "/")
	}
	if a.flags.theme != "" {
		cfg.Theme = a.flags.theme
	}
	if a.flags.debug {
		cfg.Debug = true
	}
	a.cfg = cfg
	ui.SetTheme(cfg.Theme)

	a.logger = log.New(io.Discard, "", 0)
	if cfg.Debug {
		if interactive {
			if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
				return fmt.Errorf("create config dir: %w", err)
			}
			f, err := tea.LogToFile(cfg.LogPath(), "checklist")
			if err != nil {
				return fmt.Errorf("open debug log: %w", err)
			}
			a.closer = f
			a.logger = log.Default()
		} else {
			a.logger = log.New(cmd.ErrOrStderr(), "checklist: ", log.LstdFlags)
		}
	}

	a.sess, err = session.New(session.NewFileStore(cfg.CredentialsPath(), cfg.APIURL))
	if err != nil {
		return err
	}
	opts := []api.Option{api.WithLogger(a.logger), api.WithUserAgent("checklist/" + versionInfo)}
	if cfg.Timeout > 0 {
		opts = append(opts, api.WithTimeout(cfg.Timeout))
	}
	a.client = api.New(cfg.APIURL, a.sess, opts...)
	a.router = nav.NewRouter(a.sess)
	a.in = bufio.NewReader(cmd.InOrStdin())
	a.logger.Printf("api %s, config %s", cfg.APIURL, cfg.Dir)
	return nil
}

func (a *app) close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

func (a *app) deps() viewmodel.Deps {
	return viewmodel.Deps{Session: a.sess, Nav: a.router, Logger: a.logger}
}

// requireLogin fails early instead of sending a request bound to be rejected.
func (a *app) requireLogin() error {
	if !a.sess.Authenticated() {
		return fmt.Errorf("not logged in, run `checklist login`")
	}
	return nil
}

// prompt reads one line after printing label.
func (a *app) prompt(cmd *cobra.Command, label string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), label)
	line, err := a.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSpace(strings.TrimSuffix(label, ":")), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// password reads without echo when stdin is a terminal.
func (a *app) password(cmd *cobra.Command) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	return a.prompt(cmd, "Password: ")
}

// confirm asks a yes/no question; anything but y or yes is no.
func (a *app) confirm(cmd *cobra.Command, question string) (bool, error) {
	ans, err := a.prompt(cmd, question+" [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(ans)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
