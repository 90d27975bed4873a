package main

import (
	"time"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/app"
	"github.com/niksmo/storefront/pkg/sigctx"
)

const closeTimeout = 10 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	storefront := app.New(sigCtx, cfg)

	storefront.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := sigctx.ShutdownContext(closeTimeout)
	defer cancel()

	storefront.Close(ctx)
}
