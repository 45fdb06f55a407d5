package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ipl/cli/cmd"
	"github.com/ardnew/ipl/lang"
	"github.com/ardnew/ipl/pkg"
)

// CLI is the top-level command-line interface of ipl.
type CLI struct {
	Log    logConfig   `embed:"" group:"log"    prefix:"log-"`
	Pprof  pprofConfig `embed:"" group:"pprof"  prefix:"pprof-"`
	Engine cmd.Engine  `embed:"" group:"engine"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Run   cmd.Run   `cmd:"" default:"withargs" help:"Run a program (default)."`
	Repl  cmd.Repl  `cmd:""                    help:"Start an interactive session."`
	Fmt   cmd.Fmt   `cmd:""                    help:"Format programs."`
	Which cmd.Which `cmd:""                    help:"Locate an installed library."`
	Init  cmd.Init  `cmd:""                    help:"Write the configuration file."`
}

// Run executes the ipl command line given by args. exit is called with the
// exit status when kong terminates early, such as after --help.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
		"version":            pkg.Name + " " + pkg.Version(),
		"ext":                lang.Ext,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars()).
		CloneWith(cli.Engine.Vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups([]kong.Group{
			cli.Engine.Group(), cli.Log.group(), cli.Pprof.group(),
		}),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
		kong.Bind(&cli.Engine),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			Tree:                true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	defer cli.Log.start(ctx)()

	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
