// FILE: example/fasthttp/main.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/daylog"
	"github.com/lixenwraith/daylog/attach"
	"github.com/lixenwraith/daylog/compat"
)

var logger *daylog.Logger

func main() {
	var err error
	logger, err = daylog.NewBuilder().
		Directory("./fasthttp_logs").
		EnableFile(true).
		Level(daylog.LevelDebug).
		EnableConsole(true).
		Build()
	if err != nil {
		panic(err)
	}
	defer logger.Shutdown()

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		logger,
		compat.WithDefaultLevel(daylog.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)

	server := &fasthttp.Server{
		Handler: requestHandler,
		Logger:  fasthttpAdapter,

		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		logger.Errorf("server stopped: %v", err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	logger.Debug(func() string { return "incoming request" }, attach.NewFastRequest(&ctx.Request))

	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())

	logger.Debug(func() string { return "outgoing response" }, attach.NewFastResponse(&ctx.Response, ctx.URI().String()))
}

func customLevelDetector(msg string) daylog.Level {
	if strings.Contains(msg, "connection cannot be served") {
		return daylog.LevelWarning
	}
	if strings.Contains(msg, "error when serving connection") {
		return daylog.LevelError
	}

	// Use default detection
	return compat.DetectLogLevel(msg)
}
