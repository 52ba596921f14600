// Package cli assembles the casebot command tree. Every handler is
// registered explicitly here at startup; there is no dynamic discovery.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nhle/casebot/internal/config"
	"github.com/nhle/casebot/internal/credential"
	"github.com/nhle/casebot/internal/input"
	"github.com/nhle/casebot/internal/logger"
	"github.com/nhle/casebot/internal/mirror"
	"github.com/nhle/casebot/internal/service"
	"github.com/nhle/casebot/internal/store"
	"github.com/nhle/casebot/internal/transport"
)

// App holds the wired-up services shared by all commands.
type App struct {
	Config    *config.Config
	Store     *store.SQLiteStore
	Transport transport.Transport
	Cases     *service.Cases
	Contacts  *service.Contacts
	Collector input.Collector
	Log       zerolog.Logger
}

// Close releases the app's resources.
func (a *App) Close() {
	if a.Store != nil {
		a.Store.Close()
	}
}

// NewRootCmd builds the full casebot command tree.
func NewRootCmd() *cobra.Command {
	var (
		configPath string
		app        App
	)

	root := &cobra.Command{
		Use:           "casebot",
		Short:         "Case management bot: cases, contacts, tasks, deadline alerts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(&app, configPath)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "config file path")

	root.AddCommand(
		newCaseCmd(&app),
		newContactCmd(&app),
		newTaskCmd(&app),
		newServeCmd(&app),
		newAuthCmd(),
	)

	return root
}

// initApp loads config and wires the store, transport, and services.
func initApp(app *App, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.New("casebot")

	st, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	tr := transport.NewGateway(cfg.Gateway.BaseURL, gatewayToken(log))
	mi := mirror.NewSyncer(st, tr, log)

	app.Config = cfg
	app.Store = st
	app.Transport = tr
	app.Cases = service.NewCases(st, tr, mi, cfg.Channels.CaseForum, log)
	app.Contacts = service.NewContacts(st, tr, mi, cfg.Channels.ContactForum, log)
	app.Collector = input.HuhCollector{}
	app.Log = log

	return nil
}

// gatewayToken resolves the gateway token from the environment, falling
// back to the OS keyring. A missing token is not fatal here; the gateway
// rejects unauthenticated calls on its own.
func gatewayToken(log zerolog.Logger) string {
	if tok := os.Getenv("CASEBOT_GATEWAY_TOKEN"); tok != "" {
		return tok
	}
	tok, err := credential.Get(credential.GatewayTokenKey)
	if err != nil {
		log.Debug().Err(err).Msg("no gateway token in keyring")
		return ""
	}
	return tok
}
