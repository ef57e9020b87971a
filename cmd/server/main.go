package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/tablewick/tablewick/backend-go/internal/collab"
	"github.com/tablewick/tablewick/backend-go/internal/config"
	"github.com/tablewick/tablewick/backend-go/internal/maps"
	mw "github.com/tablewick/tablewick/backend-go/internal/middleware"
	"github.com/tablewick/tablewick/backend-go/internal/scene"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	mapService := maps.NewService()
	mapHandler := maps.NewHandler(mapService)

	if cfg.SeedSampleMap {
		sample := scene.NewSampleMap()
		mapService.Seed(sample)
		slog.Info("seeded sample map", "map", sample.Map.ID)
	}

	// Rooms work on a copy of the authored document; session mutations are
	// broadcast to clients, never written back to the registry.
	hub := collab.NewHub(mapService.GetCopy)
	go hub.Run()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.AllowedOrigins))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Map authoring API
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/maps", mapHandler.List).Methods("GET")
	api.HandleFunc("/maps", mapHandler.Create).Methods("POST", "OPTIONS")
	api.HandleFunc("/maps/import", mapHandler.Import).Methods("POST", "OPTIONS")
	api.HandleFunc("/maps/{mapId}", mapHandler.Get).Methods("GET")
	api.HandleFunc("/maps/{mapId}", mapHandler.Delete).Methods("DELETE", "OPTIONS")
	api.HandleFunc("/maps/{mapId}/tokens", mapHandler.AddToken).Methods("POST", "OPTIONS")
	api.HandleFunc("/maps/{mapId}/lights", mapHandler.AddLight).Methods("POST", "OPTIONS")
	api.HandleFunc("/maps/{mapId}/visibility", mapHandler.Visibility).Methods("GET")

	// WebSocket endpoint for live table sessions
	r.HandleFunc("/ws/map/{mapId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub) {
	vars := mux.Vars(r)
	mapID := vars["mapId"]

	// Display name via query param; sessions are anonymous (the shared
	// display and DM screens are trusted local clients).
	displayName := r.URL.Query().Get("name")
	if displayName == "" {
		displayName = "Anonymous"
	}
	userID := "user-" + uuid.New().String()[:8]

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"localhost:5173", "localhost:3000"},
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := collab.NewClient(hub, conn, userID, displayName, mapID, clientID)

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
