package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/lmchat/lmchat/internal/gateway"
)

// One-shot smoke check: send a fixed prompt through the gateway against a
// local endpoint and print the reply.
func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cand, err := gateway.NewOpenAICandidate("llama3.1:8b", "http://localhost:11434/v1/", os.Getenv("OPENAI_API_KEY"))
	if err != nil {
		logger.Fatal("failed to initialize candidate", zap.Error(err))
	}

	gw := gateway.New([]gateway.Candidate{cand}, 30*time.Second, 4096, logger)
	reply, err := gw.Complete(context.Background(), "What would be a good company name for a company that makes colorful socks?", nil)
	if err != nil {
		logger.Fatal("failed to generate completion", zap.Error(err))
	}
	fmt.Println(reply)
}
