package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homeroom/internal/config"
	"homeroom/internal/notify"
	"homeroom/internal/schedule"
	"homeroom/internal/store"
	"homeroom/internal/student"
)

// Ticker is the external periodic trigger: it runs one scheduler tick
// per minute directly against the shared stores. Deployments on a
// platform cron can hit POST /v1/scheduler/tick instead.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisCli := store.NewRedis(cfg.RedisAddr)
	defer redisCli.Close()

	state := schedule.NewRedisState(redisCli.Client)
	students := student.NewRepository(db.Client)
	notifier := notify.NewRedisNotifier(redisCli.Client)
	eval := schedule.NewEvaluator(schedule.DefaultSlots(), cfg.SlotWindow)
	engine := schedule.NewEngine(state, students, notifier)
	sched := schedule.NewScheduler(state, engine, eval, cfg.Location())

	log.Println("ticker started, running once per minute")
	runTick(ctx, sched)

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			runTick(ctx, sched)
		case <-ctx.Done():
			log.Println("ticker stopped")
			return
		}
	}
}

func runTick(ctx context.Context, sched *schedule.Scheduler) {
	res, err := sched.Tick(ctx, time.Now())
	switch {
	case err != nil:
		log.Printf("tick failed: %v", err)
	case res.Applied:
		log.Printf("tick applied %s/%s: %d updated, %d skipped", res.Day, res.Slot, res.Report.Updated, res.Report.Skipped)
	default:
		log.Printf("tick skipped: %s", res.Skipped)
	}
}
