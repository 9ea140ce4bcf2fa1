package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"mangatracker/internal/config"
	"mangatracker/internal/cron"
	"mangatracker/internal/db"
	"mangatracker/internal/fetch"
	"mangatracker/internal/logger"
	"mangatracker/internal/manga"
	"mangatracker/internal/notify"
	"mangatracker/internal/ratelimit"
	"mangatracker/internal/tracker"
	"mangatracker/internal/updater"
)

func main() {
	logger.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		logger.LogMsg(logger.LogError, "Failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.LogMsg(logger.LogError, "Failed to close database: %v", err)
		}
	}()

	if err := database.CreateTables(); err != nil {
		logger.LogMsg(logger.LogError, "Failed to create tables: %v", err)
		os.Exit(1)
	}

	fetcher := fetch.New(cfg.BrowserURL)

	if len(os.Args) > 1 {
		svc := tracker.New(database, fetcher)
		if err := runCommand(svc, os.Args[1:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	u := updater.New(database, fetcher, ratelimit.New(), notify.NewWebhook(cfg.WebhookURL), cfg.UpdateConcurrency)

	scheduler := cron.NewScheduler(u, cfg.CronSchedule)
	if err := scheduler.Start(); err != nil {
		os.Exit(1)
	}

	select {}
}

func runCommand(svc *tracker.Service, args []string) error {
	switch args[0] {
	case "add":
		if len(args) != 3 {
			return fmt.Errorf("usage: mangatracker add <source> <manga-id>")
		}
		row, err := svc.Add(context.Background(), manga.Source(args[1]), args[2])
		if err != nil {
			return err
		}
		fmt.Printf("Tracking %s, latest: %s (%s)\n",
			row.Title, row.LatestChapterTitle, row.LatestChapterReleaseDate.Format("2006-01-02"))
		return nil

	case "remove":
		if len(args) < 3 {
			return fmt.Errorf("usage: mangatracker remove <source> <manga-id> [<manga-id>...]")
		}
		return svc.Remove(manga.Source(args[1]), args[2:]...)

	case "list":
		var q db.Query
		if len(args) > 1 {
			q.Source = manga.Source(args[1])
		}
		rows, err := svc.List(q)
		if err != nil {
			return err
		}
		for _, row := range rows {
			state := "upcoming"
			if row.Released {
				state = "released"
			}
			fmt.Printf("%-20s %-12s %s: %s [%s]\n",
				row.Source, row.MangaID, row.Title, row.LatestChapterTitle, state)
		}
		return nil

	case "sources":
		for _, src := range manga.All() {
			fmt.Println(src)
		}
		return nil

	default:
		return fmt.Errorf("unknown command %q (want add, remove, list or sources)", args[0])
	}
}
