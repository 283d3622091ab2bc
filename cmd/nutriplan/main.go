package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"nutriplan/internal/adapter/postgres"
	"nutriplan/internal/app"
	"nutriplan/internal/config"
	"nutriplan/internal/domain"
)

const usage = `usage: nutriplan <command> [flags]

commands:
  generate     generate the day's plan (-force replaces the active one)
  show         print the latest plan of the day
  versions     list every plan version of the day
  accept       commit every pending item of a plan to the meal log
  accept-meal  commit the pending items of one meal slot
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		slog.Error("db open", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	svc := app.NewPlanService(db, db, db, db, db, app.Options{
		LookbackDays:       cfg.LookbackDays,
		FrequentFoodsLimit: cfg.FrequentFoodsLimit,
		FallbackPoolSize:   cfg.FallbackPoolSize,
		Picker:             app.NewSeededPicker(cfg.PlanSeed),
	})

	if err := run(context.Background(), svc, os.Args[1], os.Args[2:]); err != nil {
		logFailure(os.Args[1], err)
		_ = db.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, svc *app.PlanService, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	userID := fs.Int64("user", 0, "user id")
	date := fs.String("date", time.Now().Format(domain.DateLayout), "plan date (YYYY-MM-DD)")
	force := fs.Bool("force", false, "discard the active plan and generate a new version")
	planID := fs.String("plan", "", "plan id")
	meal := fs.String("meal", "", "meal slot (breakfast, lunch, dinner, snack)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch cmd {
	case "generate":
		view, err := svc.GenerateOrRegenerate(ctx, *userID, *date, *force)
		if err != nil {
			return err
		}
		return printJSON(view)
	case "show":
		view, err := svc.GetLatestPlan(ctx, *userID, *date)
		if err != nil {
			return err
		}
		if view == nil {
			return fmt.Errorf("no plan for %s", *date)
		}
		return printJSON(view)
	case "versions":
		plans, err := svc.ListVersions(ctx, *userID, *date)
		if err != nil {
			return err
		}
		return printJSON(plans)
	case "accept":
		if *planID == "" {
			return errors.New("-plan is required")
		}
		return svc.AcceptPlan(ctx, *planID)
	case "accept-meal":
		if *planID == "" {
			return errors.New("-plan is required")
		}
		slot, err := domain.ParseMealSlot(*meal)
		if err != nil {
			return err
		}
		return svc.AcceptMeal(ctx, *planID, slot)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func logFailure(cmd string, err error) {
	slog.Error("command failed", "command", cmd, "error", err)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
