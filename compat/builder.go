// Package compat adapts a daylog.Logger to the logger interfaces of gnet and fasthttp
package compat

import (
	"fmt"

	"github.com/lixenwraith/daylog"
)

// Builder creates adapters for gnet and fasthttp.
// It can use an existing *daylog.Logger or create one from a *daylog.Config.
type Builder struct {
	logger *daylog.Logger
	logCfg *daylog.Config
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies an existing logger to use for the adapters.
// If this is set WithConfig is ignored.
func (b *Builder) WithLogger(l *daylog.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("daylog/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithConfig provides a configuration for a new logger instance.
// It is used only if no logger is provided via WithLogger; without either a default logger is
// created, which discards everything until it is configured.
func (b *Builder) WithConfig(cfg *daylog.Config) *Builder {
	b.logCfg = cfg
	return b
}

// getLogger resolves the logger to be used, creating one if necessary
func (b *Builder) getLogger() (*daylog.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.logger != nil {
		return b.logger, nil
	}

	l := daylog.NewLogger()
	cfg := b.logCfg
	if cfg == nil {
		cfg = daylog.DefaultConfig()
	}

	if err := l.ApplyConfig(cfg); err != nil {
		_ = l.Shutdown()
		return nil, err
	}

	// Cache the logger for subsequent builds with this builder
	b.logger = l
	return l, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// GetLogger returns the underlying logger, creating it if needed
func (b *Builder) GetLogger() (*daylog.Logger, error) {
	return b.getLogger()
}

// --- Example Usage ---
//
//	appLogger, err := daylog.NewBuilder().
//		Level(daylog.LevelDebug).
//		Directory("logs").
//		EnableFile(true).
//		Build()
//	if err != nil { /* handle error */ }
//	defer appLogger.Shutdown()
//
//	builder := compat.NewBuilder().WithLogger(appLogger)
//	gnetLogger, _ := builder.BuildGnet()
//	fasthttpLogger, _ := builder.BuildFastHTTP()
//
//	// gnet takes the adapter as an option
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//
//	// fasthttp takes it through the server's Logger field
//	server := &fasthttp.Server{Handler: handler, Logger: fasthttpLogger}
//	go server.ListenAndServe(":8080")
