// Command shop is a CLI client for the shopping cart backend.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/and161185/shopcart/internal/backend"
	"github.com/and161185/shopcart/internal/config"
	"github.com/and161185/shopcart/internal/session"
	"github.com/and161185/shopcart/internal/shop"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, `shop CLI
Usage:
  shop [-url URL] [-timeout DUR] [-config FILE] <cmd> [args]

Commands:
  version
  register  -u <username> -p <password>
  login     -u <username> -p <password>     (saves token)
  logout
  items                                     (browse catalog)
  cart                                      (show cart and total)
  add       -id <itemID>
  rm        -id <itemID>
  checkout
  orders                                    (order history, newest first)
  shell                                     (interactive mode)
`)
	os.Exit(2)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// credsFlags parses -u/-p for register and login.
func credsFlags(name string, args []string) (string, string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	u := fs.String("u", "", "username")
	p := fs.String("p", "", "password")
	_ = fs.Parse(args)
	return *u, *p
}

func idFlag(name string, args []string) int64 {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	id := fs.Int64("id", 0, "item id")
	_ = fs.Parse(args)
	if *id == 0 {
		fmt.Fprintln(os.Stderr, "need -id")
		os.Exit(1)
	}
	return *id
}

// main parses configuration, wires the service graph and dispatches commands.
func main() {
	urlFlag := flag.String("url", "", "backend base URL (overrides config)")
	timeoutFlag := flag.Duration("timeout", 0, "HTTP timeout (overrides config)")
	cfgPath := flag.String("config", "", "path to config file")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)
	if cmd == "version" {
		fmt.Printf("shop %s (%s)\n", version, buildDate)
		return
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fail(err)
	}
	if *urlFlag != "" {
		cfg.ServerURL = *urlFlag
	}
	if *timeoutFlag > 0 {
		cfg.Timeout = *timeoutFlag
	}

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	sess := session.New()
	api := backend.New(cfg.ServerURL, cfg.Timeout, sess, logger)
	app := shop.NewCoordinator(api, sess, logger)

	ctx := context.Background()
	app.Bootstrap(ctx)

	switch cmd {
	case "register":
		u, p := credsFlags("register", flag.Args()[1:])
		app.Auth.SetMode(shop.ModeSignup)
		if err := app.Login(ctx, u, p); err != nil {
			fail(err)
		}
		fmt.Println("account created, logged in")

	case "login":
		u, p := credsFlags("login", flag.Args()[1:])
		app.Auth.SetMode(shop.ModeLogin)
		if err := app.Login(ctx, u, p); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "logout":
		if err := app.Logout(); err != nil {
			fail(err)
		}
		fmt.Println("logged out")

	case "items":
		requireSession(app)
		printItems(app)

	case "cart":
		requireSession(app)
		printCart(app)

	case "add":
		id := idFlag("add", flag.Args()[1:])
		requireSession(app)
		if err := app.Cart.Add(ctx, id); err != nil {
			fail(err)
		}
		printCart(app)

	case "rm":
		id := idFlag("rm", flag.Args()[1:])
		requireSession(app)
		if err := app.Cart.Remove(ctx, id); err != nil {
			fail(err)
		}
		printCart(app)

	case "checkout":
		requireSession(app)
		orderID, err := app.Checkout(ctx)
		if err != nil {
			fail(err)
		}
		fmt.Printf("order #%d placed\n", orderID)

	case "orders":
		requireSession(app)
		printOrders(app)

	case "shell":
		shell(ctx, app)

	default:
		usage()
	}
}

func requireSession(app *shop.Coordinator) {
	if app.State() != shop.StateAuthenticated {
		fail(fmt.Errorf("not logged in (run: shop login -u <user> -p <pass>)"))
	}
}

// shell runs the interactive loop for browsing, cart edits and checkout.
func shell(ctx context.Context, app *shop.Coordinator) {
	fmt.Println("shop shell; type 'help' for commands")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("shop> ")
		if !scanner.Scan() {
			return
		}
		args := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			fmt.Println("Commands: login <u> <p>, signup <u> <p>, items, cart, add <id>, rm <id>, checkout, orders, logout, exit")

		case "login", "signup":
			if len(args) < 3 {
				fmt.Printf("Usage: %s <username> <password>\n", args[0])
				continue
			}
			mode := shop.ModeLogin
			if args[0] == "signup" {
				mode = shop.ModeSignup
			}
			app.Auth.SetMode(mode)
			if err := app.Login(ctx, args[1], args[2]); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("ok")

		case "items":
			printItems(app)

		case "cart":
			printCart(app)

		case "add", "rm":
			if len(args) < 2 {
				fmt.Printf("Usage: %s <itemID>\n", args[0])
				continue
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				fmt.Println("bad item id:", args[1])
				continue
			}
			if args[0] == "add" {
				err = app.Cart.Add(ctx, id)
			} else {
				err = app.Cart.Remove(ctx, id)
			}
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			printCart(app)

		case "checkout":
			orderID, err := app.Checkout(ctx)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Printf("order #%d placed\n", orderID)

		case "orders":
			printOrders(app)

		case "logout":
			if err := app.Logout(); err != nil {
				fmt.Println("error:", err)
			} else {
				fmt.Println("logged out")
			}

		case "exit", "quit":
			fmt.Println("Bye")
			return

		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}
