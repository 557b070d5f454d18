package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"campus-eats/internal/client"
	"campus-eats/internal/config"
	"campus-eats/internal/services"
)

const usage = `Usage: foodctl [flags] <group> <command> [args]

Groups:
  cart      show | add <dishId> <qty> | set <itemId> <qty> | rm <itemId> | clear
  orders    list [status] | show <orderId> | create | status <orderId> <status>
            | cancel <orderId> | stats <merchantId> [start] [end]
  changes   list | show <changeId> | submit <merchantId> field=value... | review <changeId> approve|reject
  merchants show <merchantId> | search <name> | menu <merchantId>
  dishes    list [merchantId] [all|available|unavailable] | show <dishId>
            | add <merchantId> <name> <price> [waitMinutes] | price <dishId> <price>
            | rm <dishId> | toggle <dishId>

Flags:
`

type app struct {
	session *services.Session
	out     *os.File
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("foodctl: ")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var (
		baseURL = flag.String("api", cfg.API.BaseURL, "backend base URL")
		token   = flag.String("token", cfg.API.Token, "bearer token")
		userID  = flag.Int64("user", cfg.UserID, "acting user id")
		timeout = flag.Duration("timeout", cfg.API.Timeout, "per-request timeout")
	)
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		flag.Usage()
		os.Exit(2)
	}

	api := client.New(client.Config{BaseURL: *baseURL, Token: *token, Timeout: *timeout})
	a := &app{session: services.NewSession(*userID, api), out: os.Stdout}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := a.run(ctx, args[0], args[1], args[2:]); err != nil {
		log.Fatalf("%s %s: %v", args[0], args[1], err)
	}
}

func (a *app) run(ctx context.Context, group, cmd string, args []string) error {
	switch group {
	case "cart":
		return a.cart(ctx, cmd, args)
	case "orders":
		return a.orders(ctx, cmd, args)
	case "changes":
		return a.changes(ctx, cmd, args)
	case "merchants":
		return a.merchants(ctx, cmd, args)
	case "dishes":
		return a.dishes(ctx, cmd, args)
	default:
		return fmt.Errorf("unknown group %q", group)
	}
}

func (a *app) requireUser() error {
	if a.session.UserID <= 0 {
		return fmt.Errorf("no acting user, pass -user or set CAMPUS_EATS_USER_ID")
	}
	return nil
}

func argID(args []string, i int, what string) (int64, error) {
	if len(args) <= i {
		return 0, fmt.Errorf("missing %s", what)
	}
	id, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, args[i])
	}
	return id, nil
}

func argInt(args []string, i int, what string) (int, error) {
	if len(args) <= i {
		return 0, fmt.Errorf("missing %s", what)
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, args[i])
	}
	return n, nil
}
