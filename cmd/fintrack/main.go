// Command fintrack is a terminal client for the fintrack API.
//
//	fintrack categories
//	fintrack category add -name Rent -budget 1200
//	fintrack transaction add -amount -42.50 -category 3 -date 2025-05-01
//	fintrack summary -by-category -chart summary.png
//
// The API location and identity come from FINTRACK_API_URL and either
// FINTRACK_USER_ID or FINTRACK_TOKEN.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fintrack/internal/client"
	"fintrack/internal/config"
	"fintrack/internal/logger"
)

const usage = `usage: fintrack <command> [flags]

commands:
  categories                         list categories
  category add|edit|rm [flags]       manage a category
  transactions [flags]               list transactions
  transaction add|edit|rm [flags]    manage a transaction
  summary [flags]                    trailing-month totals
`

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var opts []client.Option
	if cfg.UserID != 0 {
		opts = append(opts, client.WithUserID(cfg.UserID))
	}
	if cfg.Token != "" {
		opts = append(opts, client.WithToken(cfg.Token))
	}

	a := &app{
		api: client.New(cfg.APIURL, opts...),
		out: os.Stdout,
		now: time.Now,
	}
	if err := a.run(ctx, os.Args[1:]); err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			logger.Get().Debugw("api request failed", "status", apiErr.StatusCode, "code", apiErr.Code)
			fmt.Fprintln(os.Stderr, "error:", apiErr.Message)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

type app struct {
	api *client.Client
	out io.Writer
	now func() time.Time
}

var errUsage = errors.New("invalid usage")

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "categories":
		return a.listCategories(ctx)
	case "category":
		return a.sub(ctx, rest, a.addCategory, a.editCategory, a.removeCategory)
	case "transactions":
		return a.listTransactions(ctx, rest)
	case "transaction":
		return a.sub(ctx, rest, a.addTransaction, a.editTransaction, a.removeTransaction)
	case "summary":
		return a.summary(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

type action func(ctx context.Context, args []string) error

func (a *app) sub(ctx context.Context, args []string, add, edit, rm action) error {
	if len(args) == 0 {
		return fmt.Errorf("expected add, edit or rm")
	}
	switch args[0] {
	case "add":
		return add(ctx, args[1:])
	case "edit":
		return edit(ctx, args[1:])
	case "rm":
		return rm(ctx, args[1:])
	default:
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}
