package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/niksmo/shop-admin/config"
	"github.com/niksmo/shop-admin/internal/app"
	"github.com/niksmo/shop-admin/pkg/sigctx"
	"github.com/spf13/pflag"
)

const usage = `usage: shop-admin [--config file] <command> [flags]

commands:
  login      --email --password
  register   --first-name --last-name --email --password [--image file]
  logout     [--yes]
  products   [list]
  products add    --name --price --image file
  products edit   --id [--name] [--price] [--image file] [--remove-image]
  products delete --id [--yes]
  config
`

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	sigCtx, closeApp := sigctx.NotifyContext(context.Background())
	defer closeApp()

	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	app.InitLogger(stderr, cfg.LogLevel)

	cmd, rest := command(args)
	if cmd == "" || cmd == "help" {
		fmt.Fprint(stdout, usage)
		return exitOK
	}
	if cmd == "config" {
		cfg.Print(stdout)
		return exitOK
	}

	admin, err := app.NewAdmin(sigCtx, cfg, stdout, stdin)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailed
	}
	defer admin.Close()

	var do func() error
	switch cmd {
	case "login":
		do, err = loginCmd(sigCtx, admin, rest)
	case "register":
		do, err = registerCmd(sigCtx, admin, rest)
	case "logout":
		do, err = logoutCmd(sigCtx, admin, rest)
	case "products":
		do, err = productsCmd(sigCtx, admin, rest)
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		fmt.Fprintf(stderr, "%v\n\n%s", err, usage)
		return exitUsage
	}

	if err := do(); err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailed
	}
	return exitOK
}

// command splits the first positional argument off args, skipping the
// global --config flag.
func command(args []string) (string, []string) {
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--config":
			i++
		case strings.HasPrefix(a, "--config="):
		case strings.HasPrefix(a, "-"):
			return "", nil
		default:
			return a, args[i+1:]
		}
	}
	return "", nil
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.String("config", "", "config file")
	return fs
}

func parse(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%s: %w", fs.Name(), err)
	}
	return nil
}
