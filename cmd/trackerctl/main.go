// Command trackerctl manages expenses on a running tracker server.
//
//	trackerctl [-server URL] list
//	trackerctl add -description Coffee -amount 3.5 -category Food -date 2024-03-01
//	trackerctl edit -id 1 -description Coffee -amount 4 -category Food -date 2024-03-01
//	trackerctl delete -id 1
//	trackerctl summary
//	trackerctl export [-o expenses.csv]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"tracker/internal/cli"
	"tracker/internal/client"
	"tracker/internal/core"
	applog "tracker/internal/log"
)

const defaultServer = "http://localhost:5000"

func main() {
	_ = cli.LoadEnvFile()
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "trackerctl:", err)
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("trackerctl", flag.ContinueOnError)
	global.SetOutput(stderr)
	server := global.String("server", envOr("TRACKER_SERVER", defaultServer), "tracker server base URL")
	timeout := global.Duration("timeout", 15*time.Second, "per-command timeout")
	verbose := global.Bool("v", false, "log client activity to stderr")
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errors.New("missing command: list, add, edit, delete, summary or export")
	}

	level := applog.ParseLevel("error")
	if *verbose {
		level = applog.ParseLevel("debug")
	}
	logger := applog.New(applog.Config{Level: level, Output: stderr, Component: applog.ComponentClient})

	api, err := client.NewClient(*server, nil)
	if err != nil {
		return err
	}
	mirror := client.NewMirror(api, logger)

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "list":
		if err := mirror.Refresh(ctx); err != nil {
			return err
		}
		return printList(stdout, mirror.Snapshot())
	case "add":
		f, _, err := parseFields(cmd, rest, stderr, false)
		if err != nil {
			return err
		}
		if err := mirror.Add(ctx, f); err != nil {
			return err
		}
		return printList(stdout, mirror.Snapshot())
	case "edit":
		f, id, err := parseFields(cmd, rest, stderr, true)
		if err != nil {
			return err
		}
		if err := mirror.Edit(ctx, id, f); err != nil {
			return err
		}
		return printList(stdout, mirror.Snapshot())
	case "delete":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		fs.SetOutput(stderr)
		id := fs.Int64("id", 0, "expense id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *id == 0 {
			return errors.New("delete: -id is required")
		}
		if err := mirror.Remove(ctx, *id); err != nil {
			return err
		}
		return printList(stdout, mirror.Snapshot())
	case "summary":
		if err := mirror.Refresh(ctx); err != nil {
			return err
		}
		return printSummary(stdout, mirror.Breakdown())
	case "export":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		fs.SetOutput(stderr)
		out := fs.String("o", "", "write CSV to this file instead of stdout")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		data, err := api.ExportCSV(ctx)
		if err != nil {
			return err
		}
		if *out == "" {
			_, err = stdout.Write(data)
			return err
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", *out, err)
		}
		fmt.Fprintf(stdout, "wrote %d bytes to %s\n", len(data), *out)
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func parseFields(cmd string, args []string, stderr io.Writer, needID bool) (core.Fields, int64, error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var f core.Fields
	id := fs.Int64("id", 0, "expense id")
	fs.StringVar(&f.Description, "description", "", "what the money was spent on")
	fs.Float64Var(&f.Amount, "amount", 0, "amount spent")
	fs.StringVar(&f.Category, "category", "", "category, e.g. Food, Rent, Transport")
	fs.StringVar(&f.Date, "date", time.Now().Format(core.DateLayout), "date as YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return core.Fields{}, 0, err
	}
	if needID && *id == 0 {
		return core.Fields{}, 0, fmt.Errorf("%s: -id is required", cmd)
	}
	return f, *id, nil
}

func printList(w io.Writer, expenses []core.Expense) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tDESCRIPTION\tCATEGORY\tAMOUNT")
	for _, e := range expenses {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.Date, e.Description, e.Category, core.FormatAmount(e.Amount))
	}
	return tw.Flush()
}

func printSummary(w io.Writer, b core.Breakdown) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tAMOUNT")
	for _, c := range b.Categories {
		fmt.Fprintf(tw, "%s\t%s\n", c.Category, core.FormatAmount(c.Amount))
	}
	fmt.Fprintf(tw, "TOTAL\t%s\n", core.FormatAmount(b.Total))
	return tw.Flush()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
