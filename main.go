/*
Package main
File: main.go
Description: Server entry point. Loads the galaxy reference data, wires the
core components (catalog, pricing calculator, contract store) to the API, and
runs the real-time hub plus the stats heartbeat.
*/

package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/everforgeworks/colony-logistics/internal/api"
	"github.com/everforgeworks/colony-logistics/internal/contracts"
	"github.com/everforgeworks/colony-logistics/internal/galaxy"
	"github.com/everforgeworks/colony-logistics/internal/pricing"
)

func main() {
	// 1. Load the server configuration
	cfg, err := LoadServerConfig("server.yaml")
	if err != nil {
		log.Fatalf("Config Fail: %v", err)
	}

	// 2. Load the static galaxy reference data
	if _, err := os.Stat(cfg.GalaxyFile); os.IsNotExist(err) {
		log.Printf("Galaxy data %s not found, using built-in tables", cfg.GalaxyFile)
	}
	catalog, err := galaxy.Load(cfg.GalaxyFile)
	if err != nil {
		log.Fatalf("Galaxy Fail: %v", err)
	}

	// 3. Construct the core once and pass it by reference everywhere.
	// No package-level state: a fresh process is a fresh universe.
	calc := pricing.NewCalculator(catalog, cfg.Pricing)
	store := contracts.NewStore()

	// 4. Initialize and start the Real-Time WebSocket Hub
	hub := api.NewHub()
	go hub.Run()

	server := api.NewServer(catalog, calc, store, hub)

	// 5. THE CONTRACT HEARTBEAT
	// Periodically pushes contract statistics to every connected listener.
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.PulseSecs) * time.Second)
		for range ticker.C {
			server.PulseStats()
		}
	}()

	// 6. Hot-reload logic: SIGHUP refreshes the reference data without restart
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGHUP)
		for {
			<-sigChan
			log.Println("SIGNAL: Reloading galaxy data...")
			fresh, err := galaxy.Load(cfg.GalaxyFile)
			if err != nil {
				log.Printf("Reload failed, keeping current data: %v", err)
				continue
			}
			server.SetCatalog(fresh)
		}
	}()

	// 7. Setup Router and Handlers
	mux := http.NewServeMux()

	// Quoting & Contract Lifecycle Endpoints
	mux.HandleFunc("/api/quotes", api.PostOnly(server.HandleRequestQuote))
	mux.HandleFunc("/api/contracts", server.HandleListContracts)
	mux.HandleFunc("/api/contracts/get", server.HandleGetContract)
	mux.HandleFunc("/api/contracts/accept", api.PostOnly(server.HandleAcceptContract))
	mux.HandleFunc("/api/contracts/status", api.PostOnly(server.HandleUpdateStatus))
	mux.HandleFunc("/api/contracts/thread", api.PostOnly(server.HandleSetThread))

	// Reference Data Endpoints
	mux.HandleFunc("/api/commodities", server.HandleGetCommodities)
	mux.HandleFunc("/api/commodities/suggest", server.HandleCommoditySuggestions)
	mux.HandleFunc("/api/systems/suggest", server.HandleSystemSuggestions)
	mux.HandleFunc("/api/stats", server.HandleGetStats)

	// Real-Time WebSocket Endpoint
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		api.ServeWs(hub, w, r)
	})

	// 8. Start the Server
	log.Printf("COLONY LOGISTICS Server live on %s (pricing policy: %s)", cfg.Addr, cfg.Pricing.Policy)
	log.Printf("Real-time Hub: Online")

	if err := http.ListenAndServe(cfg.Addr, api.CORSMiddleware(api.RecoverMiddleware(mux))); err != nil {
		log.Fatal(err)
	}
}
