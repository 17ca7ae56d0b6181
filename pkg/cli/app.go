// Package cli implements the novadash subcommands.
package cli

import (
	"flag"
	"io"
	"net/http"
	"os"

	"novadash/pkg/cache"
	"novadash/pkg/config"
	"novadash/pkg/explorer"
	"novadash/pkg/logging"
	"novadash/pkg/market"
	"novadash/pkg/monitor"
	"novadash/pkg/portfolio"
	"novadash/pkg/router"
	"novadash/pkg/tui"
	"novadash/pkg/wallet"
	"novadash/pkg/watcher"

	"github.com/cockroachdb/errors"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// Version should be set during build
var Version = "dev"

// as a CLI application, global flags are read once per process.
var (
	configPath = flag.String("config", "", "Path to configuration file (default ~/"+config.ConfigFileName+")")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(&versionCmd{}, "")

	c.Register(&dashCmd{}, "dashboard")
	c.Register(&serveCmd{}, "dashboard")

	c.Register(&initCmd{}, "session")
	c.Register(&loginCmd{}, "session")
	c.Register(&logoutCmd{}, "session")

	c.Register(&pricesCmd{}, "data")
	c.Register(&portfolioCmd{}, "data")
	c.Register(&exploreCmd{}, "data")
	c.Register(&pingCmd{}, "data")
}

// App holds everything a command needs, built from the config file.
type App struct {
	Config config.Config
	Log    *zap.Logger
	Store  *cache.Store
	HTTP   *http.Client
	Wallet wallet.Capability
	Out    io.Writer
}

// Open loads the config named by -config and opens the session store.
// serve adds stderr to the log outputs.
func Open(serve bool) (*App, error) {
	path, err := config.GetConfigPath(*configPath)
	if err != nil {
		return nil, errors.Wrap(err, "determine config path")
	}
	cfg, err := config.LoadConfigFromFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load config from %s", path)
	}
	if err := cfg.ResolvePaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}

	log, err := logging.New(cfg.LogPath, *debug, serve)
	if err != nil {
		return nil, errors.Wrap(err, "open log")
	}
	store, err := cache.Open(cfg.SessionPath, log.Named("cache"))
	if err != nil {
		return nil, err
	}
	log.Debug("opened session", zap.String("config", path), zap.String("session", cfg.SessionPath))
	return New(cfg, store, log), nil
}

// ErrConfigExists is returned by InitConfig when the file is already there.
var ErrConfigExists = errors.New("config file already exists")

// InitConfig writes the default configuration to path. An existing file is
// only replaced when force is set; SaveConfig keeps a timestamped backup.
func InitConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.Wrapf(ErrConfigExists, "%s (use -force to overwrite)", path)
	}
	if err := config.SaveConfig(config.Default(), path); err != nil {
		return errors.Wrapf(err, "write config %s", path)
	}
	return nil
}

// New wires an App around an already opened store.
func New(cfg config.Config, store *cache.Store, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		Config: cfg,
		Log:    log,
		Store:  store,
		HTTP:   &http.Client{Timeout: cfg.HTTPTimeout()},
		Wallet: wallet.FromConfig(cfg.WalletRPCURL),
		Out:    os.Stdout,
	}
}

func (a *App) Close() {
	if w, ok := a.Wallet.(interface{ Close() }); ok {
		w.Close()
	}
	_ = a.Log.Sync()
}

func (a *App) Feed() *market.Feed {
	return market.NewFeed(a.Config.PriceBaseURL, a.HTTP, a.Log.Named("market"))
}

func (a *App) Explorer() *explorer.Client {
	return explorer.NewClient(a.Config.ExplorerBaseURL, a.Config.ExplorerProxyURL, a.HTTP, a.Log.Named("explorer"))
}

func (a *App) Portfolio() *portfolio.Client {
	return portfolio.NewClient(a.Config.WalletScanBaseURL, a.Config.WalletScanAPIKey, a.HTTP, a.Log.Named("portfolio"))
}

func (a *App) BalanceMonitor() *monitor.BalanceMonitor {
	return monitor.NewBalanceMonitor(a.Wallet, a.Store, a.Log.Named("balance"))
}

func (a *App) LatencyMonitor() *monitor.LatencyMonitor {
	return monitor.NewLatencyMonitor(a.Config.PingURL, a.HTTP, a.Store, a.Log.Named("latency"))
}

func (a *App) Watcher() *watcher.Watcher {
	return watcher.NewWatcher(a.Feed(), a.Store, a.Log.Named("watcher"))
}

func (a *App) Router() *router.Router {
	return router.New(a.Store, a.Log.Named("router"))
}

// Deps wires the dashboard to this App's sources.
func (a *App) Deps(w *watcher.Watcher) tui.Deps {
	return tui.Deps{
		Store:     a.Store,
		Router:    a.Router(),
		Watcher:   w,
		Portfolio: a.Portfolio(),
		Explorer:  a.Explorer(),
		Balance:   a.BalanceMonitor(),
		Latency:   a.LatencyMonitor(),
		Wallet:    a.Wallet,
		Log:       a.Log.Named("tui"),
	}
}
