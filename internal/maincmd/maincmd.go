// Package maincmd implements the dojo binary's command surface: with no
// arguments it starts a REPL, given a single path ending in ".dojo" it
// compiles and runs that script, and the tokenize/parse debug subcommands
// dump the scanner/parser's intermediate output (spec.md §6.2).
package maincmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mna/mainer"
)

const binName = "dojo"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<path>]
       %[1]s tokenize|parse <path>...
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<path>]
       %[1]s tokenize|parse <path>...
       %[1]s -h|--help
       %[1]s -v|--version

Compiler, virtual machine and REPL for the %[1]s scripting language.

With no arguments, starts an interactive read-eval-print loop. Given a
single <path> ending in ".dojo", compiles and runs it, returning exit
code 65 on a compile error, 70 on a runtime error, or 74 if the file
can't be read.

The <command> can be one of:
       tokenize <path>...        Run the scanner phase and print the
                                 resulting token stream.
       parse <path>...           Run the parser phase and print the
                                 resulting abstract syntax tree.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
`, binName)
)

// Process exit codes follow the BSD sysexits.h convention the original VM's
// CLI uses (spec.md §6.2, SPEC_FULL.md §E.3): 64 for a CLI usage error, 65
// for a compile error, 70 for a runtime error, 74 for an unreadable input
// file. mainer.ExitCode is a plain int-based type (mainer.Success/
// Failure/InvalidArgs are just named values of it), so these are
// constructed directly rather than chosen from mainer's own constants,
// which only cover the generic 0/1/2 case.
const (
	ExitUsage   mainer.ExitCode = 64
	ExitCompile mainer.ExitCode = 65
	ExitRuntime mainer.ExitCode = 70
	ExitNoInput mainer.ExitCode = 74
)

// Cmd is the dojo binary's command, wired up by cmd/dojo/main.go.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string)        { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) { c.flags = flags }

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) == 0 {
		return nil // no command: start the REPL
	}

	if cmdName := c.args[0]; cmdName == "tokenize" || cmdName == "parse" {
		commands := buildCmds(c)
		c.cmdFn = commands[cmdName]
		if len(c.args[1:]) == 0 {
			return fmt.Errorf("%s: at least one file must be provided", cmdName)
		}
		return nil
	}

	if len(c.args) > 1 {
		return fmt.Errorf("too many arguments: %s", strings.Join(c.args[1:], " "))
	}
	if filepath.Ext(c.args[0]) != ".dojo" {
		return fmt.Errorf("script path must end in \".dojo\", got %q", c.args[0])
	}
	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: strings.ToUpper(binName) + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return ExitUsage
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	switch {
	case len(c.args) == 0:
		return c.Repl(ctx, stdio)
	case c.cmdFn != nil:
		if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
			return ExitCompile
		}
		return mainer.Success
	default:
		return c.Run(ctx, stdio, c.args[0])
	}
}

// valid debug commands are those that take a context and Stdio and a slice
// of file paths as input, and return an error as output — the same
// reflection-based discovery the rest of the command surface is built on,
// scoped here to tokenize/parse since Run and Repl don't share that shape.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
