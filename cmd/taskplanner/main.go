package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-planner/internal/bot"
	"task-planner/internal/config"
	"task-planner/internal/repository"
	"task-planner/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	store := repository.NewStore(db)

	taskSvc := service.NewTaskService(store, service.KeywordSuggester{})
	listSvc := service.NewListService(store)
	reminderSvc := service.NewReminderService(store)
	gamificationSvc := service.NewGamificationService(store)

	notify := func(string) {}
	var planner *bot.Bot
	if cfg.TelegramToken != "" {
		planner, err = bot.New(cfg.TelegramToken, taskSvc, listSvc, reminderSvc, gamificationSvc, store, &cfg)
		if err != nil {
			log.Fatalf("bot: %v", err)
		}
		notify = planner.Notify
	} else {
		log.Println("[info] no TELEGRAM_TOKEN set, running headless")
	}

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleInterval(cfg.ReminderPoll, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		due, err := reminderSvc.ProcessDue(jobCtx, time.Now())
		if err != nil {
			log.Printf("reminder poll: %v", err)
			return
		}
		for _, reminder := range due {
			if reminder.Task != nil {
				notify("⏰ Reminder: " + reminder.Task.Title)
			}
		}
	}); err != nil {
		log.Fatalf("schedule reminder poll: %v", err)
	}
	if _, err := scheduler.ScheduleDaily(cfg.AgendaTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		summary, err := reminderSvc.AgendaSummary(jobCtx, time.Now())
		if err != nil {
			log.Printf("agenda: %v", err)
			return
		}
		notify(summary)
	}); err != nil {
		log.Fatalf("schedule agenda: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Println("Task planner started.")
	if planner != nil {
		if err := planner.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("bot stopped with error: %v", err)
		}
	} else {
		<-ctx.Done()
	}
	log.Println("Shutdown complete.")
}
