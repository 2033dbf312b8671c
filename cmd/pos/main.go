package main

import (
	"context"
	"time"

	"github.com/niksmo/retail-pos/config"
	"github.com/niksmo/retail-pos/internal/app"
	"github.com/niksmo/retail-pos/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	posService := app.New(sigCtx, cfg)

	posService.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	posService.Close(ctx)
}
