// FILE: example/gnet/main.go
package main

import (
	"github.com/panjf2000/gnet/v2"

	"github.com/lixenwraith/daylog"
	"github.com/lixenwraith/daylog/compat"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
	logger *daylog.Logger
}

func (es *echoServer) OnOpen(c gnet.Conn) ([]byte, gnet.Action) {
	es.logger.Infof("connection opened from %s", c.RemoteAddr())
	return nil, gnet.None
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	n := len(buf)
	es.logger.Verbose(func() string { return "echo" }, map[string]int{"bytes": n})
	_, _ = c.Write(buf)
	return gnet.None
}

func main() {
	logger, err := daylog.NewBuilder().
		Directory("./gnet_logs").
		EnableFile(true).
		Level(daylog.LevelDebug).
		Format("json").
		Build()
	if err != nil {
		panic(err)
	}
	defer logger.Shutdown()

	gnetAdapter, err := compat.NewBuilder().WithLogger(logger).BuildGnet()
	if err != nil {
		panic(err)
	}

	err = gnet.Run(
		&echoServer{logger: logger},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		logger.Errorf("gnet stopped: %v", err)
	}
}
