package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"fintrack/internal/client"
	"fintrack/internal/models"
	"fintrack/internal/report"
	"fintrack/internal/summary"
)

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func requireID(id uint) error {
	if id == 0 {
		return fmt.Errorf("-id is required")
	}
	return nil
}

func parseAmount(name, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Decimal{}, fmt.Errorf("-%s is required", name)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid -%s %q", name, raw)
	}
	return d, nil
}

func (a *app) listCategories(ctx context.Context) error {
	categories, err := a.api.ListCategories(ctx)
	if err != nil {
		return err
	}
	client.SortCategories(categories)

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBUDGET")
	for _, c := range categories {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, c.Name, summary.Format(c.Budget))
	}
	return tw.Flush()
}

func (a *app) categoryFlags(name string, withID bool) (*flag.FlagSet, *uint, *string, *string) {
	fs := a.flags(name)
	var id *uint
	if withID {
		id = fs.Uint("id", 0, "category id")
	}
	catName := fs.String("name", "", "category name")
	budget := fs.String("budget", "", "monthly budget")
	return fs, id, catName, budget
}

func (a *app) addCategory(ctx context.Context, args []string) error {
	fs, _, name, budget := a.categoryFlags("category add", false)
	if err := fs.Parse(args); err != nil {
		return err
	}
	b, err := parseAmount("budget", *budget)
	if err != nil {
		return err
	}

	cat, err := a.api.CreateCategory(ctx, *name, b)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created category %d %s\n", cat.ID, cat.Name)
	return nil
}

func (a *app) editCategory(ctx context.Context, args []string) error {
	fs, id, name, budget := a.categoryFlags("category edit", true)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}
	b, err := parseAmount("budget", *budget)
	if err != nil {
		return err
	}

	cat, err := a.api.UpdateCategory(ctx, *id, *name, b)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "updated category %d %s\n", cat.ID, cat.Name)
	return nil
}

func (a *app) removeCategory(ctx context.Context, args []string) error {
	fs := a.flags("category rm")
	id := fs.Uint("id", 0, "category id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	if err := a.api.DeleteCategory(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted category %d\n", *id)
	return nil
}

func (a *app) listTransactions(ctx context.Context, args []string) error {
	fs := a.flags("transactions")
	from := fs.String("from", "", "earliest date (YYYY-MM-DD)")
	to := fs.String("to", "", "latest date (YYYY-MM-DD)")
	category := fs.Uint("category", 0, "only this category id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	query := client.TransactionQuery{CategoryID: *category}
	for _, f := range []struct {
		raw string
		dst **models.Date
	}{{*from, &query.FromDate}, {*to, &query.ToDate}} {
		if f.raw == "" {
			continue
		}
		d, err := models.ParseDate(f.raw)
		if err != nil {
			return err
		}
		*f.dst = &d
	}

	page, err := a.api.LoadTransactionsPage(ctx, query)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tAMOUNT\tCATEGORY\tDESCRIPTION")
	for _, tx := range page.Transactions {
		desc := ""
		if tx.Description != nil {
			desc = *tx.Description
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", tx.ID, tx.Date, summary.Format(tx.Amount), page.CategoryName(tx.CategoryID), desc)
	}
	return tw.Flush()
}

type transactionFlags struct {
	fs       *flag.FlagSet
	id       *uint
	amount   *string
	date     *string
	category *uint
	desc     *string
}

func (a *app) transactionFlags(name string, withID bool) transactionFlags {
	fs := a.flags(name)
	f := transactionFlags{fs: fs}
	if withID {
		f.id = fs.Uint("id", 0, "transaction id")
	}
	f.amount = fs.String("amount", "", "signed amount; negative for expenses")
	f.date = fs.String("date", "", "date (YYYY-MM-DD), defaults to today")
	f.category = fs.Uint("category", 0, "category id")
	f.desc = fs.String("desc", "", "optional description")
	return f
}

func (a *app) transactionInput(f transactionFlags) (client.TransactionInput, error) {
	amount, err := parseAmount("amount", *f.amount)
	if err != nil {
		return client.TransactionInput{}, err
	}

	date := models.NewDate(a.now())
	if *f.date != "" {
		if date, err = models.ParseDate(*f.date); err != nil {
			return client.TransactionInput{}, err
		}
	}

	input := client.TransactionInput{Amount: amount, Date: date, CategoryID: *f.category}
	if d := strings.TrimSpace(*f.desc); d != "" {
		input.Description = &d
	}
	return input, nil
}

func (a *app) addTransaction(ctx context.Context, args []string) error {
	f := a.transactionFlags("transaction add", false)
	if err := f.fs.Parse(args); err != nil {
		return err
	}
	input, err := a.transactionInput(f)
	if err != nil {
		return err
	}

	tx, err := a.api.CreateTransaction(ctx, input)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created transaction %d\n", tx.ID)
	return nil
}

func (a *app) editTransaction(ctx context.Context, args []string) error {
	f := a.transactionFlags("transaction edit", true)
	if err := f.fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*f.id); err != nil {
		return err
	}
	input, err := a.transactionInput(f)
	if err != nil {
		return err
	}

	tx, err := a.api.UpdateTransaction(ctx, *f.id, input)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "updated transaction %d\n", tx.ID)
	return nil
}

func (a *app) removeTransaction(ctx context.Context, args []string) error {
	fs := a.flags("transaction rm")
	id := fs.Uint("id", 0, "transaction id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	if err := a.api.DeleteTransaction(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted transaction %d\n", *id)
	return nil
}

func (a *app) summary(ctx context.Context, args []string) error {
	fs := a.flags("summary")
	byCategory := fs.Bool("by-category", false, "break expenses down per category")
	chartPath := fs.String("chart", "", "also write a PNG bar chart to this path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		s          summary.Summary
		categories []summary.CategorySpend
		err        error
	)
	if *byCategory {
		s, categories, err = a.api.CategorySummary(ctx, a.now())
	} else {
		s, err = a.api.Summary(ctx, a.now())
	}
	if err != nil {
		return err
	}

	if err := report.Text(a.out, s, categories); err != nil {
		return err
	}

	if *chartPath == "" {
		return nil
	}
	img, err := report.ChartPNG(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*chartPath, img, 0o644); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}
	fmt.Fprintf(a.out, "chart written to %s\n", *chartPath)
	return nil
}
