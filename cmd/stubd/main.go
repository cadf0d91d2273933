package main

import (
	"log"
	"os"

	"assistant-client/internal/logging"
	"assistant-client/internal/stubserver"
)

func main() {
	logger, err := logging.New("logs", "info")
	if err != nil {
		log.Fatal("Logger init failed:", err)
	}

	addr := os.Getenv("STUB_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := stubserver.New(logger)
	logger.Infof("Stub assistant server started on %s", addr)
	if err := srv.Router().Run(addr); err != nil {
		logger.Errorf("Stub server failed: %v", err)
	}
}
