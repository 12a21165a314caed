package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"f1stats/config"
	"f1stats/ergast"
	"f1stats/readme"
	"f1stats/service"
	"f1stats/storage"
	"f1stats/temperrors"
	vk_api "f1stats/vk"
)

var (
	configPath string
	envFile    string
	verbose    bool

	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "f1stats",
	Short: "Sync current F1 standings into JSON snapshots and the README",
	Long: `Fetches the current drivers' and constructors' standings, writes them to
JSON snapshot files and refreshes the auto-generated section of the README.
Files are only rewritten when their content changed.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log = setupLogger(cmd.ErrOrStderr(), verbose)

		if err := config.LoadEnvFile(envFile); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Debug("No .env file found", slog.String("path", envFile))
			} else {
				return err
			}
		} else {
			log.Debug("Loaded .env file", slog.String("path", envFile))
		}
		return nil
	},
	RunE: runSync,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to a .env file with F1STATS_* variables")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func runSync(cmd *cobra.Command, args []string) error {
	conf, err := config.Load(configPath)
	if err != nil {
		return err
	}

	app := newApp(conf, cmd.OutOrStdout(), log)
	if _, err := app.sync.Run(cmd.Context()); err != nil {
		log.Error("Sync failed", slog.String("class", errorClass(err)), slog.Any("error", err))
		return err
	}
	return nil
}

// errorClass names the failure kind for the run log.
func errorClass(err error) string {
	switch {
	case temperrors.IsTransport(err):
		return "transport"
	case temperrors.IsDataShape(err):
		return "data_shape"
	default:
		return "internal"
	}
}

type app struct {
	api     *ergast.ErgastAPI
	updater *service.DocumentUpdater
	sync    *service.SyncService
}

func newApp(conf *config.Config, out io.Writer, log *slog.Logger) *app {
	ergastAPI := ergast.NewErgastAPI(conf.BaseURL,
		ergast.WithTimeout(conf.Timeout),
		ergast.WithRateLimit(conf.RequestsPerSecond),
		ergast.WithLogger(log),
	)

	store := storage.NewJSONStore(out, log)
	doc := readme.NewDocument(conf.ReadmePath, out, log)
	updater := service.NewDocumentUpdater(ergastAPI, doc, log)

	opts := service.SyncOptions{
		DataDir:         conf.DataDir,
		DriverPath:      conf.DriverPath(),
		ConstructorPath: conf.ConstructorPath(),
		Out:             out,
		Log:             log,
	}
	if conf.NotifierEnabled() {
		opts.Notifier = vk_api.NewNotifier(conf.VkToken, conf.VkPeerID, log)
	}

	return &app{
		api:     ergastAPI,
		updater: updater,
		sync:    service.NewSyncService(ergastAPI, store, updater, opts),
	}
}

func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})).
		With(slog.String("run_id", uuid.NewString()))
}
