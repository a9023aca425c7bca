package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	auth "SimStruct/internal/auth"
	autodesign "SimStruct/internal/calc/autodesign"
	batch "SimStruct/internal/calc/batch"
	beam "SimStruct/internal/calc/beam"
	importer "SimStruct/internal/calc/importer"
	report "SimStruct/internal/calc/report"
	config "SimStruct/internal/config"
	notification "SimStruct/internal/notification"
	predict "SimStruct/internal/predict"
	profile "SimStruct/internal/profile"
	repo "SimStruct/internal/repo"
	simulation "SimStruct/internal/simulation"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func HandleList(mux *mux.Router, db *sqlx.DB, cfg *config.Config, log *slog.Logger) {
	userRepo := repo.NewPostgresUserDB(db)
	authEnv := &auth.Authenv{JWTkey: []byte(cfg.TokenKey), Repo: userRepo, Log: log}

	aiClient := predict.NewClient(cfg.AI.URL, log.With("component", "predict"))
	aiClient.PredictTimeout = cfg.AI.PredictTimeout
	aiClient.HealthTimeout = cfg.AI.HealthTimeout

	orch := simulation.NewOrchestrator(aiClient, log.With("component", "orchestrator"))
	notifRepo := repo.NewNotificationRepository(db)
	simService := simulation.NewService(
		repo.NewSimulationRepository(db),
		notifRepo,
		orch,
		log.With("component", "simulation"),
	)

	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	aiH := &predict.Handler{Client: aiClient}
	api.HandleFunc("/ai/health", aiH.Health).Methods("GET")
	api.HandleFunc("/ai/model-info", aiH.ModelInfo).Methods("GET")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	profileH := &profile.ProfileHandler{Repo: userRepo, Log: log, UploadDir: cfg.Server.UploadDir}
	profileH.RegisterRoutes(secureApi)

	beamH := &beam.Handler{}
	autoH := &autodesign.Handler{}
	batchH := &batch.Handler{}
	importH := &importer.Handler{}
	reportH := &report.Handler{}

	secureApi.HandleFunc("/tools/beam/analyze", beamH.Analyze).Methods("POST")
	secureApi.HandleFunc("/tools/beam/autodesign", autoH.Beam).Methods("POST")
	secureApi.HandleFunc("/tools/beam/batch", batchH.Beam).Methods("POST")
	secureApi.HandleFunc("/tools/beam/import", importH.Beam).Methods("POST")
	secureApi.HandleFunc("/tools/report/pdf", reportH.Generate).Methods("POST")
	secureApi.HandleFunc("/ai/predict", aiH.Predict).Methods("POST")

	simH := &simulation.Handler{Service: simService, Log: log}
	simH.RegisterRoutes(secureApi.PathPrefix("/simulations").Subrouter())

	notifH := &notification.Handler{Store: notifRepo, Log: log}
	notifH.RegisterRoutes(secureApi.PathPrefix("/notifications").Subrouter())

	mux.PathPrefix("/uploads/").
		Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Server.UploadDir))))
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}
	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	db, err := repo.Open(ctx, cfg.Database.URL)
	if err != nil {
		log.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := repo.ApplySchema(ctx, db); err != nil {
		log.Error("apply schema", "error", err)
		os.Exit(1)
	}

	mux := mux.NewRouter()
	HandleList(mux, db, cfg, log)
	handler := CORS(mux)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("starting server", "addr", cfg.Server.Addr, "tls", cfg.Server.TLS(), "ai_url", cfg.AI.URL)
		var err error
		if cfg.Server.TLS() {
			err = server.ListenAndServeTLS(cfg.Server.TLSCert, cfg.Server.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, closing active connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	wg.Wait()
	log.Info("server stopped")
}
