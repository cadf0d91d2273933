package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"assistant-client/internal/chat"
	"assistant-client/internal/config"
	"assistant-client/internal/logging"
	"assistant-client/internal/notify"
	"assistant-client/internal/socket"
	"assistant-client/internal/speech"
	"assistant-client/internal/store"
	"assistant-client/internal/timefmt"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Config load failed:", err)
	}

	// Initialize logger
	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		log.Fatal("Logger init failed:", err)
	}

	// Open persisted state
	persist, err := store.OpenSQLite(cfg.Store.Path)
	if err != nil {
		logger.Errorf("Store open failed: %v", err)
		log.Fatal("Store open failed:", err)
	}
	defer persist.Close()

	st, err := store.New(persist, logger)
	if err != nil {
		logger.Errorf("Store rehydrate failed: %v", err)
		log.Fatal("Store rehydrate failed:", err)
	}

	format, err := timefmt.New(cfg.Time.PinnedZone)
	if err != nil {
		logger.Errorf("Timezone load failed: %v", err)
		log.Fatal("Timezone load failed:", err)
	}

	// Realtime channel
	manager := socket.NewManager(cfg.Backend.WSURL, socket.NoRetry{}, logger)
	defer manager.Close()

	notifier := notify.NewRateLimited(notify.Desktop{}, cfg.Notify.RatePerSecond, cfg.Notify.Burst, logger)

	alarmListener := notify.NewAlarmListener(notifier, format, logger, cfg.Notify.AppName, cfg.Backend.DashboardURL, st.ReconcileAlarm)
	defer alarmListener.Attach(manager.Dispatcher())()

	taskListener := notify.NewTaskListener(notifier, format, logger, cfg.Notify.AppName, cfg.Backend.DashboardURL)
	defer taskListener.Attach(manager.Dispatcher())()

	controller := chat.NewController(st, manager, logger, chat.Config{
		ResponseTimeout: time.Duration(cfg.Chat.ResponseTimeoutSec) * time.Second,
		MaxMessageLen:   cfg.Chat.MaxMessageLen,
	})
	defer controller.Attach(manager.Dispatcher())()

	// Voice I/O
	engine := speech.NewCommandEngine(cfg.Speech.SpeakCommand, logger)
	speaker := speech.NewSpeaker(engine, st, logger)
	speaker.Bind()
	defer speaker.Close()

	recognizer := speech.NewRecognizer(engine, logger)
	defer recognizer.Close()

	// Restore the session: a persisted or configured token brings the
	// socket up immediately.
	if cfg.Auth.Token != "" {
		st.SetToken(cfg.Auth.Token)
	}
	if loggedIn, token := st.Auth(); loggedIn && token != "" {
		if err := manager.SetAuth(true, token); err != nil {
			logger.Errorf("Realtime connect failed: %v", err)
		}
	} else {
		logger.Infof("Not logged in; realtime channel idle until a token is set")
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Infof("Shutting down...")
	manager.SetAuth(false, "")
	logger.Infof("Client stopped")
}
