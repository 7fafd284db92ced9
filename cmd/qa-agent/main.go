// File path: cmd/qa-agent/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"strings"

	"github.com/joho/godotenv"

	"github.com/MohittShukla/QA-agent/internal/api"
	"github.com/MohittShukla/QA-agent/internal/common"
	"github.com/MohittShukla/QA-agent/internal/knowledge"
	"github.com/MohittShukla/QA-agent/internal/llm"
)

func main() {
	logger := common.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logger.Warn("qa-agent: .env file not loaded", "error", err)
	} else {
		logger.Info("qa-agent: environment loaded from .env")
	}

	addr := flag.String("addr", ":8000", "listen address")
	flag.Parse()

	logger.Info("qa-agent: startup initiated", "addr", *addr)

	provider := llm.WithPolicy(llm.NewProvider(ctx), llm.PolicyFromEnv())
	logger.Info("qa-agent: llm provider ready", "provider", provider.Name())

	store := knowledge.NewStore()
	server := api.NewServer(store, provider)

	logger.Info("qa-agent: server listening", "addr", *addr, "health", "/healthz")
	fmt.Printf("Serving on %s\n", *addr)
	reachable := *addr
	if strings.HasPrefix(reachable, ":") {
		reachable = "localhost" + reachable
	}
	logger.Info("qa-agent: verify reachability", "suggestion", fmt.Sprintf("curl http://%s/healthz", reachable))
	if err := http.ListenAndServe(*addr, server); err != nil {
		logger.Error("qa-agent: server stopped", "error", err)
		fmt.Println("server stopped:", err)
	}
}
