// Command sautictl is an operator tool for the Sauti Pay back office. It can
// compute a premium breakdown offline and page through list endpoints of a
// running server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"sautipay/internal/currency"
	"sautipay/internal/listing"
	"sautipay/internal/logging"
	"sautipay/internal/money"
	"sautipay/internal/premium"

	"github.com/rs/zerolog"
)

const usage = `usage:
  sautictl premium -gross 1000 -currency USD [-fees fees.json] [-rate 5]
  sautictl list -endpoint /api/transactions [-base http://localhost:8080] [-token T] [-status S] [-sort F] [-order asc|desc] [-page N] [-limit N]
`

func main() {
	logger := logging.NewWithWriter(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}, os.Getenv("LOG_LEVEL"))
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "premium":
		err = runPremium(os.Args[2:], os.Stdout)
	case "list":
		err = runList(os.Args[2:], os.Stdout, logger)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error().Err(err).Str("command", os.Args[1]).Msg("sautictl failed")
		os.Exit(1)
	}
}

func runPremium(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("premium", flag.ContinueOnError)
	gross := fs.String("gross", "", "gross premium")
	code := fs.String("currency", currency.Base, "premium currency")
	feesPath := fs.String("fees", "", "JSON file with deductible fees (defaults to the built-in set)")
	rate := fs.String("rate", "0", "commission rate in percent")
	if err := fs.Parse(args); err != nil {
		return err
	}

	grossAmount, err := money.Parse(*gross)
	if err != nil {
		return fmt.Errorf("invalid -gross %q: %w", *gross, err)
	}
	commissionRate, err := money.Parse(*rate)
	if err != nil {
		return fmt.Errorf("invalid -rate %q: %w", *rate, err)
	}
	fees := premium.DefaultFees()
	if *feesPath != "" {
		if fees, err = readFees(*feesPath); err != nil {
			return err
		}
	}
	rates, err := currency.NewTable(currency.DefaultRates())
	if err != nil {
		return err
	}

	target := currency.Normalize(*code)
	derived, err := premium.Derive(grossAmount, fees, target, commissionRate, rates)
	if err != nil {
		return err
	}
	result, err := premium.Breakdown(grossAmount, fees, target, rates)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "gross       %s %s\n", money.Format(grossAmount), target)
	for _, d := range result.Deductions {
		fmt.Fprintf(out, "  - %-20s %s %s\n", d.Name, money.Format(d.Amount), target)
	}
	fmt.Fprintf(out, "net         %s %s\n", money.Format(derived.Net), target)
	fmt.Fprintf(out, "commission  %s %s (%s%%)\n", money.Format(derived.Commission), target, commissionRate)
	return nil
}

func readFees(path string) ([]premium.DeductibleFee, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fees: %w", err)
	}
	var fees []premium.DeductibleFee
	if err := json.Unmarshal(raw, &fees); err != nil {
		return nil, fmt.Errorf("parse fees %s: %w", path, err)
	}
	return fees, nil
}

func runList(args []string, out io.Writer, logger zerolog.Logger) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	base := fs.String("base", "http://localhost:8080", "server base URL")
	endpoint := fs.String("endpoint", "/api/transactions", "list endpoint")
	token := fs.String("token", os.Getenv("SAUTI_TOKEN"), "session token")
	status := fs.String("status", "", "status filter")
	search := fs.String("search", "", "search filter")
	page := fs.Int("page", 1, "page number")
	sortBy := fs.String("sort", "", "sort field: date, amount or status")
	order := fs.String("order", "", "sort order: asc or desc")
	limit := fs.Int("limit", listing.DefaultLimit, "page size")
	timeout := fs.Duration("timeout", 20*time.Second, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	controller := listing.NewController[json.RawMessage](listing.NewHTTPFetcher[json.RawMessage](*base, *endpoint, *token), nil, logger)
	if *limit != listing.DefaultLimit {
		controller.ChangePageSize(ctx, *limit)
	}
	if *sortBy != "" || *order != "" {
		controller.SetSort(ctx, *sortBy, *order)
	}
	controller.ApplyFilters(ctx, listing.Filters{Status: *status, Search: *search})
	if *page != 1 {
		controller.ChangePage(ctx, *page)
	}

	view := controller.View()
	if view.State == listing.Error {
		return fmt.Errorf("fetch %s failed", *endpoint)
	}
	for _, row := range view.Data {
		fmt.Fprintln(out, string(row))
	}
	p := view.Pagination
	fmt.Fprintf(out, "page %d of %d (%d records)\n", p.Page, p.TotalPages, p.Total)
	return nil
}
