package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Houeta/stock-flow/internal/bot"
	"github.com/Houeta/stock-flow/internal/config"
	"github.com/Houeta/stock-flow/internal/metrics"
	"github.com/Houeta/stock-flow/internal/models"
	"github.com/Houeta/stock-flow/internal/services/checker"
	"github.com/Houeta/stock-flow/internal/services/tracker"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 10 * time.Second
	historyLimit    = 10
)

// cli keeps the application built by the root command for its subcommands.
type cli struct {
	app *app
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "stock-flow",
		Short: "Watches Zara products and reports restocks and price drops.",
		Long: `stock-flow polls the product API of tracked Zara products, stores every
snapshot in SQLite and alerts Telegram subscribers when a desired size comes
back in stock or the price goes down.

Configuration is read from SF_* environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.MustLoad()

			a, err := newApp(cmd.Context(), cfg, setupLogger(cfg.Env))
			if err != nil {
				return err
			}
			c.app = a

			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if c.app != nil {
				c.app.close()
			}
		},
	}

	root.AddCommand(
		c.runCmd(),
		c.checkCmd(),
		c.addCmd(),
		c.listCmd(),
		c.removeCmd(),
		c.historyCmd(),
		c.statusCmd(),
	)

	return root
}

func (c *cli) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Poll tracked products periodically, serve metrics and run the Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd.Context())
		},
	}
}

func (c *cli) run(ctx context.Context) error {
	a := c.app

	var notifier checker.Notifier
	if a.cfg.Tg.Enabled {
		stockBot, err := bot.NewBot(a.log, a.cfg.Tg.Token, a.cfg.Tg.Timeout, a.tracker, a.repo)
		if err != nil {
			return fmt.Errorf("failed to init bot: %w", err)
		}
		notifier = stockBot

		// Start the bot in a goroutine to allow the poll loop to run.
		go stockBot.Start()
		defer stockBot.Stop()
	} else {
		a.log.WarnContext(ctx, "Telegram is disabled, alerts are only logged")
		notifier = logNotifier{log: a.log}
	}

	srv := &http.Server{
		Addr:              a.cfg.MetricsAddr,
		Handler:           metrics.Handler(a.registry),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("Metrics server failed", "addr", srv.Addr, "error", err)
		}
	}()

	a.log.InfoContext(ctx, "Application started. Press Ctrl+C to stop.",
		"interval", a.cfg.Polling.Interval, "metrics_addr", a.cfg.MetricsAddr)

	pollLoop(ctx, a.newChecker(notifier), a.cfg.Polling.Interval, a.log)

	a.log.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("Failed to stop metrics server", "error", err)
	}

	a.log.Info("Application stopped gracefully.")

	return nil
}

func (c *cli) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run a single polling cycle and print the summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			changes, err := c.app.newChecker(nil).CheckForUpdates(cmd.Context())
			if err != nil {
				return err
			}

			printChangeSet(cmd.OutOrStdout(), changes)

			return nil
		},
	}
}

func (c *cli) addCmd() *cobra.Command {
	var size string

	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Start tracking a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.app.tracker.Add(cmd.Context(), args[0], size)
			if err != nil {
				return err
			}

			printAddResult(cmd.OutOrStdout(), res)

			return nil
		},
	}
	cmd.Flags().StringVarP(&size, "size", "s", "", "size to watch, e.g. M (empty means any)")

	return cmd
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := c.app.tracker.List(cmd.Context())
			if err != nil {
				return err
			}

			return printProducts(cmd.OutOrStdout(), products)
		},
	}
}

func (c *cli) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Stop tracking a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err = c.app.tracker.Remove(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Product #%d removed.\n", id)

			return nil
		},
	}
}

func (c *cli) historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <id>",
		Short: "Show the recorded price changes of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			points, err := c.app.repo.GetPriceHistory(cmd.Context(), id, limit)
			if err != nil {
				return err
			}

			return printHistory(cmd.OutOrStdout(), points)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", historyLimit, "number of records to show")

	return cmd
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id>",
		Short: "Show the last known state of the desired size of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			entry, found, err := c.app.tracker.DesiredSizeStatus(cmd.Context(), id)
			if err != nil {
				return err
			}

			printSizeStatus(cmd.OutOrStdout(), id, entry, found)

			return nil
		},
	}
}

// cycleRunner is implemented by checker.Checker.
type cycleRunner interface {
	CheckForUpdates(ctx context.Context) (*models.ChangeSet, error)
}

// pollLoop runs a cycle right away and then every interval until ctx is done.
func pollLoop(ctx context.Context, runner cycleRunner, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		changes, err := runner.CheckForUpdates(ctx)
		if err != nil {
			log.ErrorContext(ctx, "Polling cycle failed", "error", err)
		} else {
			log.InfoContext(ctx, "Polling cycle finished",
				"updated", changes.UpdatedCount,
				"changed_sizes", changes.ChangedSizeCount,
				"skipped", changes.SkippedCount,
				"failed", changes.FailedCount,
				"alerts", len(changes.Alerts),
				"price_drops", len(changes.PriceDrops),
			)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id %q", raw)
	}

	return id, nil
}

func printChangeSet(w io.Writer, changes *models.ChangeSet) {
	fmt.Fprintf(w, "updated: %d, changed sizes: %d, skipped: %d, failed: %d\n",
		changes.UpdatedCount, changes.ChangedSizeCount, changes.SkippedCount, changes.FailedCount)

	for _, alert := range changes.Alerts {
		fmt.Fprintf(w, "back in stock: %s, size %s, %s\n", alert.ProductName, alert.Size, alert.Price.StringFixed(2))
	}
	for _, drop := range changes.PriceDrops {
		fmt.Fprintf(w, "price drop: %s, %s -> %s\n", drop.ProductName, drop.OldPrice.StringFixed(2), drop.NewPrice.StringFixed(2))
	}
}

func printAddResult(w io.Writer, res *tracker.AddResult) {
	fmt.Fprintf(w, "Tracking %s (#%d), price %s.\n", res.Product.Name, res.Product.ID, res.Product.Price.StringFixed(2))

	if res.Product.DesiredSize == "" {
		return
	}

	fmt.Fprintf(w, "Size %s is %s.\n", res.Product.DesiredSize, inStockLabel(res.DesiredInStock))
}

func printProducts(w io.Writer, products []models.TrackedProduct) error {
	if len(products) == 0 {
		fmt.Fprintln(w, "No tracked products.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSIZE\tSTATUS\tPRICE\tIN STOCK")
	for _, p := range products {
		size := p.DesiredSize
		if size == "" {
			size = "any"
		}

		status := "unknown"
		if entry, ok := p.DesiredStatus(); ok {
			status = string(entry.Status)
		}

		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, size, status, p.Price.StringFixed(2), inStockSizes(p.PriorSizes))
	}

	return tw.Flush()
}

func printSizeStatus(w io.Writer, id int64, entry models.SizeEntry, found bool) {
	if !found {
		fmt.Fprintf(w, "Product #%d: desired size not set or not seen yet.\n", id)
		return
	}

	fmt.Fprintf(w, "Product #%d: size %s is %s (%s), price %s.\n",
		id, entry.Size, inStockLabel(entry.InStock), entry.Status, entry.Price.StringFixed(2))
}

func inStockLabel(inStock bool) string {
	if inStock {
		return "in stock"
	}
	return "out of stock"
}

func printHistory(w io.Writer, points []models.PricePoint) error {
	if len(points) == 0 {
		fmt.Fprintln(w, "No price history.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RECORDED AT\tPRICE\tOLD PRICE\tDISCOUNT")
	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			p.RecordedAt.Format(time.DateTime), p.Price.StringFixed(2), p.OldPrice.StringFixed(2), p.Discount)
	}

	return tw.Flush()
}

func inStockSizes(sizes map[string]models.SizeEntry) string {
	var names []string
	for name, entry := range sizes {
		if entry.InStock {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "-"
	}

	slices.Sort(names)

	return strings.Join(names, ",")
}
