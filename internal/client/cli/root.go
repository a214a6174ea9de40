package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	httpClient "github.com/iudanet/missionflow/internal/client/api"
	"github.com/iudanet/missionflow/internal/client/iocli"
	"github.com/iudanet/missionflow/internal/client/storage/boltdb"
	"github.com/iudanet/missionflow/internal/config"
	"github.com/iudanet/missionflow/internal/logging"
)

// VersionInfo данные сборки
type VersionInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)
}

type rootFlags struct {
	configPath string
	serverURL  string
	dbPath     string
	token      string
	logLevel   string
}

// NewRootCommand собирает корневую команду клиента. Хранилище открывается
// перед выполнением подкоманды и закрывается после нее.
func NewRootCommand(info VersionInfo) *cobra.Command {
	var (
		flags rootFlags
		store *boltdb.Storage
		app   = &Cli{}
	)

	root := &cobra.Command{
		Use:           "missionflow",
		Short:         "MissionFlow offline-first client",
		Version:       info.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{Writer: cmd.ErrOrStderr(), Level: cfg.Log.Level, Prefix: "missionflow"})
			if err != nil {
				return err
			}

			store, err = boltdb.New(cmd.Context(), cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}

			app.init(Options{
				IO:            iocli.NewStdio(),
				API:           httpClient.NewClient(cfg.Server.URL),
				Store:         store,
				Logger:        logger,
				ServerURL:     cfg.Server.URL,
				Token:         cfg.Auth.Token,
				ActorID:       cfg.Auth.ActorID,
				ActionTimeout: cfg.Sync.ActionTimeout.Std(),
				ProbeInterval: cfg.Sync.ProbeInterval.Std(),
			})
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if store == nil {
				return nil
			}
			return store.Close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "missionflow.toml", "Path to the TOML config file")
	pf.StringVar(&flags.serverURL, "server", "", "Backend URL")
	pf.StringVar(&flags.dbPath, "db", "", "Path to the local database")
	pf.StringVar(&flags.token, "token", "", "Access token (overrides the stored session)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Команды читают поля app во время выполнения, после init
	root.AddCommand(app.Commands()...)
	return root
}

// loadConfig применяет флаги поверх настроек из файла и окружения
func loadConfig(cmd *cobra.Command, flags rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, err
	}

	fs := cmd.Flags()
	if fs.Changed("server") {
		cfg.Server.URL = flags.serverURL
	}
	if fs.Changed("db") {
		cfg.Database.Path = flags.dbPath
	}
	if fs.Changed("token") {
		cfg.Auth.Token = flags.token
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
