// Command plumed runs a single-node plume ledger host: a SQLite
// slot store behind the gRPC ledger service.
//
// Configuration comes from the environment (a .env file in the
// working directory is loaded if present):
//
//	PLUME_LISTEN_ADDR    listen address (default :7450)
//	PLUME_DB_PATH        SQLite database path (default plume.db)
//	PLUME_RENT_PER_BYTE  allocation price per reserved byte
package main

import (
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"google.golang.org/grpc"

	plumegrpc "github.com/plumeledger/plume/grpc"
	"github.com/plumeledger/plume/ledger"
	"github.com/plumeledger/plume/ledger/store"
)

func main() {
	godotenv.Load()

	addr := envOr("PLUME_LISTEN_ADDR", ":7450")
	dbPath := envOr("PLUME_DB_PATH", "plume.db")

	var cfg ledger.Config
	if v := os.Getenv("PLUME_RENT_PER_BYTE"); v != "" {
		rent, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			log.Fatalf("PLUME_RENT_PER_BYTE: %v", err)
		}
		cfg.RentPerByte = rent
	}

	st, err := store.OpenSQLite(dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	led := ledger.Open(st, cfg)

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("listen on %s: %v", addr, err)
	}

	gs := grpc.NewServer()
	plumegrpc.NewServer(led).Register(gs)

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-done
		log.Printf("received %s, shutting down", sig)
		gs.GracefulStop()
	}()

	log.Printf("plumed serving on %s (db %s, rent %d/byte)", lis.Addr(), dbPath, led.RentFor(1))
	if err := gs.Serve(lis); err != nil {
		log.Fatalf("serve: %v", err)
	}
	if err := led.Close(); err != nil {
		log.Printf("close ledger: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
