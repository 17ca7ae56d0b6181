package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"novadash/pkg/config"

	"github.com/google/subcommands"
)

// run opens the App, calls fn and maps its error to an exit status.
func run(serve bool, fn func(a *App) error) subcommands.ExitStatus {
	a, err := Open(serve)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	if err := fn(a); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type versionCmd struct{}

func (*versionCmd) Name() string             { return "version" }
func (*versionCmd) Synopsis() string         { return "print version and exit" }
func (*versionCmd) Usage() string            { return "novadash version\n" }
func (*versionCmd) SetFlags(_ *flag.FlagSet) {}

func (*versionCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fmt.Printf("novadash version %s\n", Version)
	return subcommands.ExitSuccess
}

type dashCmd struct{}

func (*dashCmd) Name() string     { return "dash" }
func (*dashCmd) Synopsis() string { return "open the terminal dashboard (default)" }
func (*dashCmd) Usage() string {
	return `novadash [dash]

  Opens the dashboard. Without a stored wallet the connect screen is shown
  first. Press ? inside the dashboard for key bindings.
`
}
func (*dashCmd) SetFlags(_ *flag.FlagSet) {}

func (*dashCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(false, func(a *App) error { return a.Dashboard(ctx) })
}

type serveCmd struct {
	port   int
	static string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the headless HTTP and websocket server" }
func (*serveCmd) Usage() string {
	return `novadash serve [-port <port>] [-static <dir>]

  Serves /api/market-status, /api/snapshot and /ws, plus the app shell
  from -static for every other path.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.port, "port", 8080, "Port for API server")
	f.StringVar(&c.static, "static", "public", "Directory holding index.html and assets")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(true, func(a *App) error { return a.Serve(ctx, c.port, c.static) })
}

type initCmd struct {
	force bool
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "write a default config file" }
func (*initCmd) Usage() string {
	return `novadash init [-force]

  Writes the default endpoints and display settings to the -config path.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "Overwrite an existing config file")
}

func (c *initCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path, err := config.GetConfigPath(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := InitConfig(path, c.force); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Wrote %s\n", path)
	return subcommands.ExitSuccess
}

type loginCmd struct{}

func (*loginCmd) Name() string             { return "login" }
func (*loginCmd) Synopsis() string         { return "store a wallet address for the session" }
func (*loginCmd) Usage() string            { return "novadash login <address>\n" }
func (*loginCmd) SetFlags(_ *flag.FlagSet) {}

func (*loginCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "login requires exactly one address")
		return subcommands.ExitUsageError
	}
	return run(false, func(a *App) error {
		addr, err := a.Login(f.Arg(0))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.Out, "Logged in as %s\n", addr)
		return nil
	})
}

type logoutCmd struct{}

func (*logoutCmd) Name() string             { return "logout" }
func (*logoutCmd) Synopsis() string         { return "clear the stored session" }
func (*logoutCmd) Usage() string            { return "novadash logout\n" }
func (*logoutCmd) SetFlags(_ *flag.FlagSet) {}

func (*logoutCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(false, func(a *App) error {
		a.Logout()
		fmt.Fprintln(a.Out, "Session cleared.")
		return nil
	})
}

type pricesCmd struct{}

func (*pricesCmd) Name() string             { return "prices" }
func (*pricesCmd) Synopsis() string         { return "print spot prices and index values" }
func (*pricesCmd) Usage() string            { return "novadash prices\n" }
func (*pricesCmd) SetFlags(_ *flag.FlagSet) {}

func (*pricesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(false, func(a *App) error { return a.Prices(ctx) })
}

type portfolioCmd struct{}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "print a wallet's balance and top holdings" }
func (*portfolioCmd) Usage() string {
	return `novadash portfolio [address]

  Scans address, or the stored wallet when omitted.
`
}
func (*portfolioCmd) SetFlags(_ *flag.FlagSet) {}

func (*portfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		return subcommands.ExitUsageError
	}
	return run(false, func(a *App) error { return a.PortfolioReport(ctx, f.Arg(0)) })
}

type exploreCmd struct {
	page   int
	search string
}

func (*exploreCmd) Name() string     { return "explore" }
func (*exploreCmd) Synopsis() string { return "print one page of the market listing" }
func (*exploreCmd) Usage() string {
	return "novadash explore [-page <n>] [-search <term>]\n"
}

func (c *exploreCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.page, "page", 1, "Listing page (25 coins each)")
	f.StringVar(&c.search, "search", "", "Filter the page by name or symbol")
}

func (c *exploreCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(false, func(a *App) error { return a.Explore(ctx, c.page, c.search) })
}

type pingCmd struct{}

func (*pingCmd) Name() string             { return "ping" }
func (*pingCmd) Synopsis() string         { return "measure network latency once" }
func (*pingCmd) Usage() string            { return "novadash ping\n" }
func (*pingCmd) SetFlags(_ *flag.FlagSet) {}

func (*pingCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(false, func(a *App) error { return a.Ping(ctx) })
}
