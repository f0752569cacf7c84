// cmd/homefinder/main.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"homefinder/internal/app"
	"homefinder/internal/config"
	"homefinder/internal/utils"
)

const usage = `usage: homefinder <command> [flags]

commands:
  signin    --email --password        sign in and remember the token
  register  --email --password --name create an account and sign in
  logout                              forget the stored token
  whoami                              show the session
  listings  [--type --city --min --max --q --skip --limit]
  show      <id>                      one listing
  mine                                your listings
  create    [listing flags]           create a listing
  edit      <id> [listing flags]      edit one of your listings
  delete    <id> [--yes]              delete one of your listings
  geocode   <address>                 resolve an address to coordinates
  profile   --name --email            update your profile
  mortgage  --price [--down --term]   monthly payment estimate
`

// cli runs one command against the wired App.
type cli struct {
	app *app.App
	in  *bufio.Reader
	out io.Writer
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" || os.Args[1] == "help" {
		fmt.Print(usage)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	// Command output goes to stdout; only warnings and errors are logged.
	level := utils.ParseLevel(cfg.LogLevel)
	if level < utils.LevelWarn {
		level = utils.LevelWarn
	}
	logger := utils.NewLoggerTo(os.Stderr, os.Stderr, level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	c := &cli{app: a, in: bufio.NewReader(os.Stdin), out: os.Stdout}
	err = c.run(ctx, os.Args[1], os.Args[2:])
	a.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (c *cli) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "signin", "login":
		return c.signIn(ctx, args)
	case "register", "signup":
		return c.register(ctx, args)
	case "logout":
		return c.logout(ctx)
	case "whoami", "status":
		return c.whoami(ctx)
	case "listings", "ls":
		return c.listings(ctx, args)
	case "show":
		return c.show(ctx, args)
	case "mine":
		return c.mine(ctx)
	case "create":
		return c.create(ctx, args)
	case "edit":
		return c.edit(ctx, args)
	case "delete", "rm":
		return c.delete(ctx, args)
	case "geocode":
		return c.geocode(ctx, args)
	case "profile":
		return c.profile(ctx, args)
	case "mortgage":
		return c.mortgageQuote(args)
	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
	}
}

// Confirm asks on stdin; anything but y or yes is a no.
func (c *cli) Confirm(_ context.Context, prompt string) bool {
	fmt.Fprintf(c.out, "%s [y/N] ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
