package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"cssval/config"
	"cssval/css"
	"cssval/misc"
	"cssval/resolve"
	"cssval/state"
	"cssval/typedom"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		env.Cfg.Logging.ConsoleLogger.Level = "debug"
	}
	if env.Log, err = env.Cfg.Logging.Prepare(); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	// configuration is valid at this point, derive engine state from it
	if env.Reg, err = env.Cfg.Engine.Registry(); err != nil {
		return ctx, fmt.Errorf("unable to prepare property registry: %w", err)
	}
	env.Screen = env.Cfg.Engine.Screen.Screen()
	env.Format = css.Format{Precision: env.Cfg.Engine.Precision}
	typedom.DefaultTolerance = env.Cfg.Engine.Tolerance()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if len(configFile) == 0 && env.Log != nil {
		env.Log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	// close logging
	env.RestoreStdLog()

	// log is synced now, errors must be reported directly to stderr from now on
	if env.Cfg != nil && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		debug.SetCrashOutput(nil, debug.CrashOptions{})
		fname := filepath.Join(filepath.Dir(env.Cfg.Logging.FileLogger.Destination), misc.GetAppName()+"-panic.log")
		if fi, er := os.Stat(fname); er == nil && fi.Size() == 0 {
			if er := os.Remove(fname); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, er))
			}
		}
	}
	return
}

// Ignore urfave/cli default error handling - for me cli.Exit() looks
// non-transparent and unnesessary. I will return regular errors from
// subcommands.
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {

	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// do nothing special, error is reported either by exitErrHandler or on
	// exit directly to stderr.
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

func main() {

	// allow graceful shutdown on interrupt.
	// NOTE: normally in cli tool this is not necessary, but just in case we
	// may decide to do some heavy async processing later let's follow the
	// rules
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "CSS value resolution engine",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, forces debug logging to console"},
		},
		Commands: []*cli.Command{
			{
				Name:         "parse",
				Usage:        "Parses property declarations into typed values",
				OnUsageError: usageErrorHandler,
				Action:       runParse,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "to", Usage: "convert numeric values to `UNIT` (px, em, cm, deg, s, ...)"},
				},
				ArgsUsage: "DECLARATION...",
				CustomHelpTemplate: fmt.Sprintf(`%s
DECLARATION:
    one or more property declarations, semicolons separate declarations
    inside a single argument:
        "font-size: 1.2em"
        "margin-left: calc(10%% + 2px); width: min(50vw, 400px)"

Each declaration is checked against the property grammar and printed as a
tree of typed values. Numeric values also show their dimensional type and,
with --to, the result of converting to the requested unit.
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "resolve",
				Usage:        "Resolves length values to a target unit",
				OnUsageError: usageErrorHandler,
				Action:       runResolve,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "to", Value: "px", Usage: "target `UNIT` for the resolved value"},
					&cli.FloatFlag{Name: "font-size", Value: resolve.DefaultFontSize, Usage: "element font size in `PIXELS` for em and friends"},
					&cli.FloatFlag{Name: "root-font-size", Value: resolve.DefaultFontSize, Usage: "root font size in `PIXELS` for rem"},
					&cli.StringFlag{Name: "viewport", DefaultText: "from configured screen", Usage: "viewport `WxH` in pixels for vw, vh, vmin, vmax and percentages"},
					&cli.StringFlag{Name: "dir", Value: "horizontal", Usage: "percentage `BASE`: horizontal, vertical, unspecified or font"},
				},
				ArgsUsage: "LENGTH...",
				CustomHelpTemplate: fmt.Sprintf(`%s
LENGTH:
    one or more length values to resolve:
        "1.5em" "75vh" "50%%" "12pt"

Relative units are resolved against a synthetic element built from the
flags: em against --font-size, rem against --root-font-size, viewport
units and percentages against --viewport. Absolute units need none of
that and convert directly.
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "expand",
				Usage:        "Expands shorthand declarations into longhands",
				OnUsageError: usageErrorHandler,
				Action:       runExpand,
				ArgsUsage:    "DECLARATION...",
			},
			{
				Name:         "collapse",
				Usage:        "Collapses longhand declarations back into shorthands",
				OnUsageError: usageErrorHandler,
				Action:       runCollapse,
				ArgsUsage:    "DECLARATION...",
			},
			{
				Name:         "media",
				Usage:        "Evaluates media queries against the configured screen",
				OnUsageError: usageErrorHandler,
				Action:       runMedia,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "feature", Aliases: []string{"f"}, Usage: "override a screen feature, `NAME=VALUE` (repeatable)"},
					&cli.StringFlag{Name: "viewport", DefaultText: "from configured screen", Usage: "viewport `WxH` in pixels"},
				},
				ArgsUsage: "QUERY...",
			},
			{
				Name:         "registry",
				Usage:        "Lists known properties or shows their descriptors",
				OnUsageError: usageErrorHandler,
				Action:       runRegistry,
				ArgsUsage:    "[NAME...]",
			},
			{
				Name:         "sheet",
				Usage:        "Parses a stylesheet and prints its rules",
				OnUsageError: usageErrorHandler,
				Action:       runSheet,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "effective", Usage: "keep only rules whose media conditions match the configured screen"},
					&cli.StringFlag{Name: "viewport", DefaultText: "from configured screen", Usage: "viewport `WxH` in pixels"},
				},
				ArgsUsage: "FILE",
				CustomHelpTemplate: fmt.Sprintf(`%s
FILE:
    path to a stylesheet, "-" reads from STDIN

Declarations are re-serialized from the parsed representation, so
shorthands come out expanded into their longhands. With --effective
rules guarded by non-matching @media conditions are dropped.
`, cli.CommandHelpTemplate),
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values wich is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			// It may happen that log is either not set yet (argument parsing) or already closed,
			// report errors to stderr directly
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()

	}

	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputing configuration", zap.String("state", state), zap.String("file", fname))

	_, err = out.Write(data)
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
