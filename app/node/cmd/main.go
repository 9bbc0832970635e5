// Command node runs the voting ledger's socket-reachable Application: it
// loads configuration and the cached Paillier public key, opens the
// audit trail, and serves the six ABCI-style callbacks over a TCP
// listener until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/dvote/voting/app/node/internal/transport"
	"github.com/dvote/voting/internal/audit"
	"github.com/dvote/voting/internal/config"
	"github.com/dvote/voting/internal/crypto/paillier"
	"github.com/dvote/voting/internal/ledger/app"
	"github.com/dvote/voting/internal/log"
)

func main() {
	configFile := flag.String("config", "", "path to node.yaml (defaults to ~/.dvote-voting layout)")
	flag.Parse()

	if err := run(*configFile); err != nil {
		fmt.Fprintln(os.Stderr, "node:", err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.SetLevel(log.ParseLevel(cfg.LogLevel))

	pubBytes, err := os.ReadFile(cfg.PublicKeyPath())
	if err != nil {
		return fmt.Errorf("reading public key %s: %w", cfg.PublicKeyPath(), err)
	}
	pub, err := paillier.UnmarshalPublicKey(pubBytes)
	if err != nil {
		return fmt.Errorf("parsing public key: %w", err)
	}

	auditStore, err := audit.Open(cfg.AuditDBPath)
	if err != nil {
		return fmt.Errorf("opening audit trail %s: %w", cfg.AuditDBPath, err)
	}
	defer auditStore.Close()

	application, err := app.New(pub, cfg.AppStatePath(), auditStore)
	if err != nil {
		return fmt.Errorf("constructing application: %w", err)
	}

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.ListenAddr, err)
	}
	defer ln.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Log().Info("node listening", "addr", cfg.ListenAddr, "data_dir", cfg.DataDir)

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	if err := transport.Serve(ctx, ln, application); err != nil {
		if ctx.Err() != nil {
			log.Log().Info("node shutting down")
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
