package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vihangaNethsara/telegram-bot/internal/bot"
	"github.com/vihangaNethsara/telegram-bot/internal/config"
	"github.com/vihangaNethsara/telegram-bot/internal/db"
	"github.com/vihangaNethsara/telegram-bot/internal/health"
	"github.com/vihangaNethsara/telegram-bot/internal/repo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := db.MustConnect(ctx, cfg.DatabaseURL)
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, "./migrations"); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("bot init: %v", err)
	}
	botAPI.Debug = cfg.LogLevel == "debug"

	payments := repo.NewPayments(pool)
	h := bot.NewHandler(botAPI, cfg, payments)

	// Graceful shutdown
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	if _, err := botAPI.Request(bot.CommandMenu()); err != nil {
		log.Printf("set bot commands: %v", err)
	}

	// Keep-alive HTTP server for hosting platforms that require one.
	var running atomic.Bool
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: health.NewRouter(running.Load),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("health server: %v", err)
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := botAPI.GetUpdatesChan(u)

	log.Printf("Society Payment Tracker Bot started as @%s (admins: %d)", botAPI.Self.UserName, len(cfg.AdminIDs))
	running.Store(true)

	dispatchLoop(ctx, updates, 5*time.Second, h.HandleUpdate)

	log.Println("shutdown")
	botAPI.StopReceivingUpdates()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("health server shutdown: %v", err)
	}
}

// dispatchLoop fans updates out to handler goroutines; each update gets its
// own goroutine so one slow command (a large /export) does not block other
// users. Once ctx is cancelled the loop stops accepting updates and waits up
// to drainTimeout for in-flight handlers to finish. Handlers run on their own
// context that stays live until the drain deadline, so cancelling the polling
// loop does not abort a handler mid-insert or mid-export.
func dispatchLoop(ctx context.Context, updates tgbotapi.UpdatesChannel, drainTimeout time.Duration, handle func(context.Context, tgbotapi.Update)) {
	handlerCtx, stopHandlers := context.WithCancel(context.Background())
	defer stopHandlers()

	var wg sync.WaitGroup
	for {
		select {
		case <-ctx.Done():
			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(drainTimeout):
				log.Println("drain timeout: abandoning in-flight handlers")
			}
			return
		case upd := <-updates:
			wg.Add(1)
			go func() {
				defer wg.Done()
				handle(handlerCtx, upd)
			}()
		}
	}
}
