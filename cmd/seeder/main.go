// Command seeder fills a running API with fake users, vlogs, comments and likes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

type options struct {
	baseURL       string
	adminUsername string
	adminPassword string
	vlogs         int
	users         int
	seed          int64
}

func main() {
	var opts options
	flag.StringVar(&opts.baseURL, "base-url", "http://localhost:8080", "API base URL")
	flag.StringVar(&opts.adminUsername, "admin-user", os.Getenv("ADMIN_USERNAME"), "privileged account used to create vlogs")
	flag.StringVar(&opts.adminPassword, "admin-password", os.Getenv("ADMIN_PASSWORD"), "password of the privileged account")
	flag.IntVar(&opts.vlogs, "vlogs", 10, "number of vlogs to create")
	flag.IntVar(&opts.users, "users", 5, "number of regular users to register")
	flag.Int64Var(&opts.seed, "seed", 0, "random seed, 0 picks one from the clock")
	flag.Parse()

	if err := run(context.Background(), opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if opts.adminUsername == "" || opts.adminPassword == "" {
		return fmt.Errorf("admin credentials are required (-admin-user, -admin-password)")
	}
	if opts.seed == 0 {
		opts.seed = time.Now().UnixNano()
	}

	faker := gofakeit.New(opts.seed)
	client := newClient(opts.baseURL, &http.Client{Timeout: 30 * time.Second})

	adminToken, err := client.login(ctx, opts.adminUsername, opts.adminPassword)
	if err != nil {
		return fmt.Errorf("login admin: %w", err)
	}

	vlogIDs := make([]string, 0, opts.vlogs)
	for i := 0; i < opts.vlogs; i++ {
		id, err := client.createVlog(ctx, adminToken, fakeVlog(faker))
		if err != nil {
			return fmt.Errorf("create vlog %d: %w", i, err)
		}
		vlogIDs = append(vlogIDs, id)
	}
	logger.Info("vlogs created", slog.Int("count", len(vlogIDs)))

	likes, comments := 0, 0
	for i := 0; i < opts.users; i++ {
		username, password := fakeCredentials(faker)
		if err := client.register(ctx, username, password); err != nil {
			return fmt.Errorf("register %s: %w", username, err)
		}
		token, err := client.login(ctx, username, password)
		if err != nil {
			return fmt.Errorf("login %s: %w", username, err)
		}

		for _, vlogID := range vlogIDs {
			if faker.Bool() {
				if err := client.like(ctx, token, vlogID); err != nil {
					return fmt.Errorf("like %s: %w", vlogID, err)
				}
				likes++
			}
			if faker.Number(0, 3) == 0 {
				if err := client.comment(ctx, token, vlogID, faker.Sentence(faker.Number(3, 12))); err != nil {
					return fmt.Errorf("comment %s: %w", vlogID, err)
				}
				comments++
			}
		}
	}

	logger.Info("seeding complete",
		slog.Int64("seed", opts.seed),
		slog.Int("vlogs", len(vlogIDs)),
		slog.Int("users", opts.users),
		slog.Int("likes", likes),
		slog.Int("comments", comments),
	)
	return nil
}
