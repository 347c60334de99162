package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"health-tracker/internal/authz"
	"health-tracker/internal/config"
	"health-tracker/internal/database"
	"health-tracker/internal/domain"
	"health-tracker/internal/geo"
	"health-tracker/internal/geocode"
	"health-tracker/internal/tracker"
)

func main() {
	// Disable structured logging for CLI
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors
	})))

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	if command == "help" {
		printUsage()
		return
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if command == "geocode" {
		handleGeocode(ctx, cfg, os.Args[2:])
		return
	}

	db, err := database.Open(cfg.DatabaseDriver, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Init(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to initialise schema: %v\n", err)
		os.Exit(1)
	}

	svc := tracker.NewService(db, geo.NewEstimator(nil), nil, slog.Default())

	switch command {
	case "init-db":
		fmt.Printf("✓ Schema ready (%s)\n", cfg.DatabaseDriver)
	case "users":
		handleUsers(ctx, svc)
	case "add-user":
		handleAddUser(ctx, svc, os.Args[2:])
	case "achievements":
		handleAchievements(ctx, svc, os.Args[2:])
	case "progress":
		handleProgress(ctx, svc, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Error: Unknown command '%s'\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`health-tracker CLI - Administration

Usage:
  cli <command> [options]

Commands:
  init-db                                  Create the schema if it does not exist
  users                                    List all users
  add-user --name N --email E --role R     Create a user (role must be admin)
  achievements --user ID                   List achievements earned by a user
  progress --user ID                       Show distance towards the next achievement
  geocode --lat LAT --lng LNG              Resolve a coordinate to a place name
  help                                     Show this help message

Examples:
  cli add-user --name Frodo --email frodo@shire.me --role admin
  cli achievements --user 1
  cli geocode --lat 53.3498 --lng -6.2603

Configuration is read from the same environment as the server:
  DATABASE_DRIVER        - sqlite or postgres (default: sqlite)
  DATABASE_PATH          - SQLite file (default: ./health-tracker.db)
  DATABASE_URL           - Postgres connection string
  OPENSTREETMAP_BASE_URL - Nominatim base URL`)
}

func handleUsers(ctx context.Context, svc *tracker.Service) {
	users, err := svc.ListUsers(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to list users: %v\n", err)
		os.Exit(1)
	}

	if len(users) == 0 {
		fmt.Println("No users found.")
		fmt.Println("\nTo create one, run: cli add-user --name N --email E --role admin")
		return
	}

	fmt.Printf("Found %d user(s):\n\n", len(users))
	for _, u := range users {
		fmt.Printf("ID: %d\n", u.ID)
		fmt.Printf("  Name: %s\n", u.Name)
		fmt.Printf("  Email: %s\n", u.Email)
		fmt.Println()
	}
}

func handleAddUser(ctx context.Context, svc *tracker.Service, args []string) {
	fs := flag.NewFlagSet("add-user", flag.ExitOnError)
	name := fs.String("name", "", "user name")
	email := fs.String("email", "", "user email")
	role := fs.String("role", "", "caller role")
	fs.Parse(args)

	if *name == "" || *email == "" {
		fmt.Fprintln(os.Stderr, "Error: --name and --email are required")
		os.Exit(1)
	}

	if err := authz.Authorize(*role, authz.CreateUser); err != nil {
		fmt.Fprintln(os.Stderr, "Error: Admin role required.")
		os.Exit(1)
	}

	user, err := svc.CreateUser(ctx, domain.User{Name: *name, Email: *email})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✓ User created successfully!")
	fmt.Printf("  ID: %d\n", user.ID)
}

func handleAchievements(ctx context.Context, svc *tracker.Service, args []string) {
	userID := parseUserFlag("achievements", args)

	earned, err := svc.EarnedAchievements(ctx, userID)
	if err != nil {
		exitUserError(err, userID)
	}

	if len(earned) == 0 {
		fmt.Printf("User %d has not earned any achievements yet.\n", userID)
		return
	}

	fmt.Printf("User %d has earned %d achievement(s):\n\n", userID, len(earned))
	for _, a := range earned {
		fmt.Printf("%s (%.2f km)\n", a.Name, a.TargetDistanceKm)
		fmt.Printf("  %s\n", a.Description)
	}
}

func handleProgress(ctx context.Context, svc *tracker.Service, args []string) {
	userID := parseUserFlag("progress", args)

	progress, err := svc.Progress(ctx, userID)
	if err != nil {
		exitUserError(err, userID)
	}

	fmt.Printf("Total distance: %.2f km\n", progress.TotalDistanceKm)
	fmt.Printf("Achievements earned: %d\n", len(progress.Earned))
	if progress.Next == nil {
		fmt.Println("Every achievement has been earned.")
		return
	}
	fmt.Printf("Next: %s in %.2f km\n", progress.Next.Name, progress.RemainingKm)
}

func handleGeocode(ctx context.Context, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("geocode", flag.ExitOnError)
	lat := fs.Float64("lat", 0, "latitude")
	lng := fs.Float64("lng", 0, "longitude")
	fs.Parse(args)

	client := geocode.NewClient(cfg.OpenStreetMapBaseURL, cfg.OpenStreetMapUserAgent, cfg.GeocodeTimeout(), slog.Default())
	name, ok := client.Lookup(ctx, *lat, *lng)
	if !ok {
		fmt.Printf("No place name found, would use: %s\n", geo.FallbackLabel("Start", *lat, *lng))
		return
	}
	fmt.Println(name)
}

func parseUserFlag(command string, args []string) int64 {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	userID := fs.Int64("user", 0, "user ID")
	fs.Parse(args)

	if *userID <= 0 {
		fmt.Fprintln(os.Stderr, "Error: --user is required")
		os.Exit(1)
	}
	return *userID
}

func exitUserError(err error, userID int64) {
	if errors.Is(err, domain.ErrUserNotFound) {
		fmt.Fprintf(os.Stderr, "Error: User %d not found\n", userID)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
