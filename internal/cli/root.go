// Package cli implements remsctl, the command-line front-end of REMS.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/realestate/rems-frontend/internal/api"
	"github.com/realestate/rems-frontend/internal/config"
	"github.com/realestate/rems-frontend/internal/guard"
	"github.com/realestate/rems-frontend/internal/sessions"
	"github.com/realestate/rems-frontend/internal/validate"
	"github.com/realestate/rems-frontend/pkg/logger"
)

// SessionID is the session namespace remsctl persists under.
const SessionID = "cli"

// env is the per-invocation state shared by all commands.
type env struct {
	out    io.Writer
	errOut io.Writer
	store  *sessions.Store
	svc    *api.Services
	nav    guard.Navigator
}

func (e *env) gate() *guard.Gate { return guard.New(e.store) }

func (e *env) printJSON(v interface{}) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// NewRootCmd builds the remsctl command tree.
func NewRootCmd() *cobra.Command {
	var (
		apiURL     string
		sessionDir string
		logLevel   string
	)
	e := &env{}

	root := &cobra.Command{
		Use:   "remsctl",
		Short: "Command-line client for the REMS real-estate platform",
		Long: `remsctl browses listings, manages favorites and, for agents, listings and images.

The session (token, user and theme) is kept in <session-dir>/cli.json and
survives between invocations. Use 'remsctl auth login' to start one.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.SetOutput(cmd.ErrOrStderr())
			if logLevel != "" {
				logger.Init(logLevel)
			}
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if apiURL == "" {
				apiURL = cfg.API.BaseURL
			}
			if sessionDir == "" {
				sessionDir = cfg.Session.Dir
			}
			e.out = cmd.OutOrStdout()
			e.errOut = cmd.ErrOrStderr()
			e.store = sessions.NewStore(sessions.NewFileRepository(sessionDir), SessionID)
			e.nav = guard.NavigatorFunc(func(target string) {
				fmt.Fprintf(e.errOut, "-> %s\n", hint(target))
			})
			client := api.NewClient(apiURL, e.store,
				api.WithNavigator(e.nav),
				api.WithImageBaseURL(cfg.API.ImageBaseURL),
			)
			e.svc = api.NewServices(client, cfg.Upload.MaxBytes)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&apiURL, "api", "", "backend API base URL (default API_BASE_URL)")
	root.PersistentFlags().StringVar(&sessionDir, "session-dir", "", "directory holding the session file (default SESSION_DIR)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug|info|warn|error")

	root.AddCommand(
		newAuthCmd(e),
		newPropertiesCmd(e),
		newFavoritesCmd(e),
		newProfileCmd(e),
		newUploadCmd(e),
		newThemeCmd(e),
	)
	return root
}

// Execute runs remsctl with os.Args.
func Execute(ctx context.Context) int {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		logger.Debugf("remsctl: %v", err)
		return 1
	}
	return 0
}

// describe renders err for the terminal. Field errors are listed in full.
func describe(err error) string {
	if ve, ok := validate.AsErrors(err); ok {
		return ve.Error()
	}
	var (
		se *api.ServerError
		te *api.TransportError
		de *api.DecodeError
		ue *api.UploadRejectedError
	)
	if errors.As(err, &se) || errors.As(err, &te) || errors.As(err, &de) || errors.As(err, &ue) {
		return api.UserMessage(err)
	}
	return err.Error()
}

// hint translates a page navigation into the command that shows it.
func hint(target string) string {
	switch target {
	case guard.LoginPath:
		return "please log in: remsctl auth login"
	case guard.AgentDashboardPath:
		return "agent dashboard: remsctl properties agent"
	case guard.ClientDashboardPath:
		return "client dashboard: remsctl properties list / remsctl favorites list"
	case guard.HomePath:
		return "home: remsctl properties list"
	}
	return target
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// errRefused is returned when a guard refused the command.
var errRefused = errors.New("not allowed for the current session")
