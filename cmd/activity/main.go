package main

import (
	"context"
	"os"
	"time"

	"github.com/niksmo/shop-admin/config"
	"github.com/niksmo/shop-admin/internal/app"
	"github.com/niksmo/shop-admin/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext(context.Background())
	defer closeApp()

	cfg := config.MustLoad()
	cfg.Print(os.Stdout)

	activityService := app.NewActivityApp(sigCtx, cfg)

	activityService.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	activityService.Close(ctx)
}
