// Command gameserver accepts TCP connections, runs the §4.4 handshake on
// each, and routes its events through a single world.World — the Go
// equivalent of original_source/protocol.rs's server main plus
// k64z-steamstacks/steamclient's Accept/Connect lifecycle.
package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/teraserver/gamecore/config"
	"github.com/teraserver/gamecore/event"
	"github.com/teraserver/gamecore/opcode"
	"github.com/teraserver/gamecore/session"
	"github.com/teraserver/gamecore/world"
)

func main() {
	logger := slog.Default()

	configPath := "server.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	table, err := loadOpcodeTable(cfg.OpcodeTablePath)
	if err != nil {
		logger.Error("load opcode table", "error", err)
		os.Exit(1)
	}

	listener, err := net.Listen("tcp", cfg.GameListenAddress)
	if err != nil {
		logger.Error("listen", "address", cfg.GameListenAddress, "error", err)
		os.Exit(1)
	}
	logger.Info("game server listening", "address", cfg.GameListenAddress)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	w := world.New(world.WithLogger(logger))
	go w.Run(ctx)

	go acceptLoop(ctx, listener, table, w.RequestChannel(), cfg, logger)

	<-ctx.Done()
	logger.Info("shutting down")
	listener.Close()
}

func acceptLoop(ctx context.Context, listener net.Listener, table *opcode.Table, requestCh chan<- event.Event, cfg config.Config, logger *slog.Logger) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				logger.Error("accept", "error", err)
				continue
			}
		}
		go handleConnection(ctx, conn, table, requestCh, cfg, logger)
	}
}

func handleConnection(ctx context.Context, conn net.Conn, table *opcode.Table, requestCh chan<- event.Event, cfg config.Config, logger *slog.Logger) {
	defer conn.Close()

	sess, err := session.New(conn, table, requestCh,
		session.WithIdleTimeout(cfg.IdleTimeout()),
		session.WithLogger(logger),
	)
	if err != nil {
		logger.Warn("session setup failed", "remote", conn.RemoteAddr(), "error", err)
		return
	}

	if err := sess.Run(ctx); err != nil {
		logger.Info("session ended", "connection_id", sess.ConnectionID(), "error", err)
	}
}

func loadOpcodeTable(path string) (*opcode.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return opcode.ParseTable(f)
}
