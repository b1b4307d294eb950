package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"killport-go/internal/config"
	"killport-go/internal/log"
	"killport-go/internal/manager"
	"killport-go/internal/output"
	"killport-go/internal/owner"
	"killport-go/internal/probe"
	"killport-go/internal/terminate"
	"killport-go/internal/tui"

	"github.com/spf13/cobra"
)

var version = "dev"

const (
	exitFailure = 1
	exitUsage   = 2
)

// exitError carries the process exit status out of RunE. Its message has
// already been reported (or deliberately silenced) when it is returned.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// app holds what the root command needs from the outside world so tests can
// run it in-process.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	goos   string
	build  func(a *app, cfg *config.Config, out *output.Reporter, interactive bool) *manager.Manager
}

func main() {
	a := &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		goos:   runtime.GOOS,
		build:  buildManager,
	}
	os.Exit(runCLI(a, os.Args[1:]))
}

// runCLI executes the root command and returns the process exit status.
// Errors cobra raises before RunE are printed unless --silent is on the
// command line.
func runCLI(a *app, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(normalizeArgs(args))

	err := root.Execute()
	if err == nil {
		return 0
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	if !silentRequested(args) {
		fmt.Fprintln(a.stderr, err)
	}
	return exitUsage
}

func newRootCmd(a *app) *cobra.Command {
	var (
		configPath  string
		silent      bool
		interactive bool
		debug       bool
	)
	cmd := &cobra.Command{
		Use:                "killport <port>",
		Short:              "Free a TCP port by killing the processes listening on it",
		Args:               cobra.ArbitraryArgs,
		Version:            version,
		SilenceUsage:       true,
		SilenceErrors:      true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cfgPath, err := config.LoadConfig(configPath)
			if err != nil {
				output.New(a.stdout, a.stderr, silent).Error("Error loading config: %v", err)
				return &exitError{code: exitUsage}
			}
			if silent {
				cfg.Silent = true
			}
			if interactive {
				cfg.Interactive = true
			}
			if debug && cfg.DebugLog == "" {
				cfg.DebugLog = filepath.Join(os.TempDir(), "killport-debug.log")
			}

			out := output.New(a.stdout, a.stderr, cfg.Silent)
			if cfg.DebugLog != "" {
				cleanup, err := log.Init(cfg.DebugLog)
				if err != nil {
					out.Error("%v", err)
				} else {
					defer cleanup()
					level, _ := log.ParseLevel(cfg.LogLevel)
					if debug {
						level = log.LevelDebug
					}
					log.SetMinLevel(level)
				}
			}
			log.Debug(log.CatConfig, "config loaded", "path", cfgPath, "silent", cfg.Silent, "interactive", cfg.Interactive)

			if len(args) > 1 {
				log.Warn(log.CatConfig, "ignoring extra arguments", "args", args[1:])
			}
			port, ok := parsePort(args)
			if !ok {
				out.Error("Please provide a valid port number.")
				return &exitError{code: exitUsage}
			}

			mgr := a.build(a, cfg, out, cfg.Interactive && !out.Silent())
			report := mgr.KillPort(port)
			log.Info(log.CatKill, "run finished", "port", port, "state", report.State)
			if report.Failed() {
				return &exitError{code: exitFailure}
			}
			return nil
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	cmd.SetVersionTemplate("killport version {{.Version}}\n")
	cmd.Flags().BoolVar(&silent, "silent", false, "Suppress all console output")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Choose which processes to kill before killing them")
	cmd.Flags().StringVarP(&configPath, "file", "f", "", "Path to config.yaml")
	cmd.Flags().BoolVar(&debug, "debug", false, "Write a debug log (default location is the temp directory)")
	return cmd
}

func buildManager(a *app, cfg *config.Config, out *output.Reporter, interactive bool) *manager.Manager {
	tools := owner.Tools{Lsof: cfg.Tools.Lsof, Netstat: cfg.Tools.Netstat}
	resolver := owner.ForPlatform(a.goos, owner.ExecRunner{}, tools)
	mgr := manager.New(probe.New(nil), resolver, terminate.New(nil), out)
	if interactive {
		mgr.Selector = tui.Picker{In: a.stdin, Out: a.stdout}
	}
	return mgr
}

// parsePort accepts anything strconv.Atoi does. Range checks are left to the
// OS, which rejects bad ports during the probe.
func parsePort(args []string) (int, bool) {
	if len(args) == 0 {
		return 0, false
	}
	port, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, false
	}
	return port, true
}

// normalizeArgs maps the single-dash "-version" spelling onto cobra's flag.
// pflag reads a negative number such as "-1" as a shorthand flag, so when one
// is present the positionals are moved behind "--" and reach parsePort.
func normalizeArgs(args []string) []string {
	var flags, positional []string
	negative := false
scan:
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			positional = append(positional, args[i+1:]...)
			break scan
		case arg == "-version":
			flags = append(flags, "--version")
		case isNegativeInt(arg):
			negative = true
			positional = append(positional, arg)
		case len(arg) > 1 && arg[0] == '-':
			flags = append(flags, arg)
			if (arg == "-f" || arg == "--file") && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		default:
			positional = append(positional, arg)
		}
	}
	if !negative {
		out := make([]string, 0, len(args))
		for _, arg := range args {
			if arg == "-version" {
				arg = "--version"
			}
			out = append(out, arg)
		}
		return out
	}
	out := make([]string, 0, len(flags)+len(positional)+1)
	out = append(out, flags...)
	out = append(out, "--")
	return append(out, positional...)
}

func isNegativeInt(arg string) bool {
	if len(arg) < 2 || arg[0] != '-' {
		return false
	}
	_, err := strconv.Atoi(arg)
	return err == nil
}

// silentRequested reports whether --silent was given, without relying on
// flag parsing having succeeded.
func silentRequested(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if arg == "--silent" {
			return true
		}
		if v, ok := strings.CutPrefix(arg, "--silent="); ok {
			b, err := strconv.ParseBool(v)
			return err == nil && b
		}
	}
	return false
}
