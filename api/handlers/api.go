package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/secid/mentorship-api/api"
	"github.com/secid/mentorship-api/api/scheduler"
	"github.com/secid/mentorship-api/blobstore"
	"github.com/secid/mentorship-api/cache"
	"github.com/secid/mentorship-api/config"
	"github.com/secid/mentorship-api/databases"
	"github.com/secid/mentorship-api/mentorship"
	"github.com/secid/mentorship-api/messaging"
	"github.com/secid/mentorship-api/models"
)

// RequestTimeout bounds every REST handler. The websocket feed is exempt.
const RequestTimeout = 30 * time.Second

// App stores the router, the engine and its connections, so they can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Engine    *mentorship.Engine
	Scheduler *scheduler.Scheduler

	client    databases.ClientHelper
	dbHelper  databases.DatabaseHelper
	cache     *cache.Client
	publisher *messaging.Publisher
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	e := a.Engine
	p := Profile{PS: e.Profiles}
	req := Request{RM: e.Requests}
	m := Match{MM: e.Matches}
	s := Session{SM: e.Sessions, MM: e.Matches}
	f := Feedback{FA: e.Feedback}
	st := Stats{SA: e.Stats}
	feed := Feed{RF: e.Feed}

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware)

	// healthchex
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	// long-lived, so registered before the timeout applies
	apiCreate.Handle("/ws/requests", api.Middleware(http.HandlerFunc(feed.PendingRequestsWebSocket))).Methods("GET")

	rest := apiCreate.NewRoute().Subrouter()
	rest.Use(api.TimeoutMiddleware(RequestTimeout))

	rest.Handle("/mentors", api.Middleware(http.HandlerFunc(p.ActiveMentorsHandler))).Methods("GET")
	rest.Handle("/mentors/{user_id}", api.Middleware(http.HandlerFunc(p.MentorHandler))).Methods("GET")
	rest.Handle("/mentors/{user_id}", api.Middleware(http.HandlerFunc(p.UpdateMentorHandler))).Methods("PUT")
	rest.Handle("/mentees/{user_id}", api.Middleware(http.HandlerFunc(p.MenteeHandler))).Methods("GET")
	rest.Handle("/mentees/{user_id}", api.Middleware(http.HandlerFunc(p.UpdateMenteeHandler))).Methods("PUT")
	rest.Handle("/profile/image", api.Middleware(http.HandlerFunc(p.UploadProfileImageHandler))).Methods("POST")

	// must stay above /matches/{match_id}
	rest.Handle("/matches/suggestions", api.Middleware(http.HandlerFunc(p.SuggestionsHandler))).Methods("GET")

	rest.Handle("/requests", api.Middleware(http.HandlerFunc(req.CreateRequestHandler))).Methods("POST")
	rest.Handle("/requests", api.Middleware(http.HandlerFunc(req.RequestsHandler))).Methods("GET")
	rest.Handle("/requests/{request_id}", api.Middleware(http.HandlerFunc(req.RequestByIDHandler))).Methods("GET")
	rest.Handle("/requests/{request_id}/respond", api.Middleware(http.HandlerFunc(req.RespondRequestHandler))).Methods("POST")

	rest.Handle("/matches", api.Middleware(http.HandlerFunc(m.MatchesHandler))).Methods("GET")
	rest.Handle("/matches/{match_id}", api.Middleware(http.HandlerFunc(m.MatchByIDHandler))).Methods("GET")
	rest.Handle("/matches/{match_id}/status", api.Middleware(http.HandlerFunc(m.UpdateMatchStatusHandler))).Methods("PUT")
	rest.Handle("/matches/{match_id}/sessions", api.Middleware(http.HandlerFunc(s.CreateSessionHandler))).Methods("POST")
	rest.Handle("/matches/{match_id}/sessions", api.Middleware(http.HandlerFunc(s.SessionsByMatchHandler))).Methods("GET")

	rest.Handle("/sessions/{session_id}", api.Middleware(http.HandlerFunc(s.SessionByIDHandler))).Methods("GET")
	rest.Handle("/sessions/{session_id}", api.Middleware(http.HandlerFunc(s.UpdateSessionHandler))).Methods("PATCH")
	rest.Handle("/sessions/{session_id}/status", api.Middleware(http.HandlerFunc(s.UpdateSessionStatusHandler))).Methods("PUT")
	rest.Handle("/sessions/{session_id}/agenda", api.Middleware(http.HandlerFunc(s.AddAgendaItemHandler))).Methods("POST")
	rest.Handle("/sessions/{session_id}/agenda", api.Middleware(http.HandlerFunc(s.RemoveAgendaItemHandler))).Methods("DELETE")
	rest.Handle("/sessions/{session_id}/resources", api.Middleware(http.HandlerFunc(s.AddResourceHandler))).Methods("POST")
	rest.Handle("/sessions/{session_id}/resources", api.Middleware(http.HandlerFunc(s.RemoveResourceHandler))).Methods("DELETE")
	rest.Handle("/sessions/{session_id}/homework", api.Middleware(http.HandlerFunc(s.AddHomeworkHandler))).Methods("POST")
	rest.Handle("/sessions/{session_id}/homework/{index}", api.Middleware(http.HandlerFunc(s.RemoveHomeworkHandler))).Methods("DELETE")
	rest.Handle("/sessions/{session_id}/homework/{index}/complete", api.Middleware(http.HandlerFunc(s.CompleteHomeworkHandler))).Methods("PUT")

	rest.Handle("/feedback", api.Middleware(http.HandlerFunc(f.CreateFeedbackHandler))).Methods("POST")
	rest.Handle("/feedback", api.Middleware(http.HandlerFunc(f.FeedbackHandler))).Methods("GET")

	rest.Handle("/stats", api.Middleware(http.HandlerFunc(st.StatsHandler))).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {
	if a.Config.JWTSecret == "" {
		return fmt.Errorf("jwt secret is not set")
	}

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = client.Connect(ctx); err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	a.client = client
	a.dbHelper = databases.NewDatabase(&a.Config, client)
	zap.S().Info("mentorship-api has connected to the database")

	opts := []mentorship.Option{}
	var locker scheduler.Locker
	if a.Config.RedisURL != "" {
		c, err := cache.New(a.Config.RedisURL, "mentorship")
		if err == nil {
			err = c.Ping(ctx)
		}
		if err != nil {
			zap.S().Warnw("redis unavailable, stats are computed on every request", "error", err)
		} else {
			a.cache = c
			locker = c
			opts = append(opts, mentorship.WithStatsCache(c, a.Config.StatsCacheTTL))
		}
	} else {
		zap.S().Warn("REDIS_URL is not set, stats cache and job lock disabled")
	}

	if a.Config.CloudinaryURL != "" {
		blobs, err := blobstore.NewCloudinary(a.Config.CloudinaryURL, a.Config.CloudinaryFolder)
		if err != nil {
			zap.S().Warnw("cloudinary unavailable, profile images disabled", "error", err)
		} else {
			opts = append(opts, mentorship.WithBlobStore(blobs))
		}
	} else {
		zap.S().Warn("CLOUDINARY_URL is not set, profile images disabled")
	}

	a.Engine = mentorship.NewEngine(mentorship.Stores{
		Mentors:  databases.NewMentorProfileDatabase(a.dbHelper),
		Mentees:  databases.NewMenteeProfileDatabase(a.dbHelper),
		Requests: databases.NewRequestDatabase(a.dbHelper),
		Matches:  databases.NewMatchDatabase(a.dbHelper),
		Sessions: databases.NewSessionDatabase(a.dbHelper),
		Feedback: databases.NewFeedbackDatabase(a.dbHelper),
	}, opts...)
	a.Engine.Bus.SubscribeAll(api.RecordEvent)

	publisher, err := messaging.Connect(a.Config.NatsURL, "mentorship-api")
	if err != nil {
		zap.S().Warnw("nats unavailable, domain events stay in process", "error", err)
	} else {
		a.publisher = publisher
		if publisher.Enabled() {
			a.Engine.Bus.SubscribeAll(publisher.Forward)
		}
	}

	a.Scheduler = scheduler.NewScheduler(a.Engine, a.Engine.Stats, locker)
	if err := a.Scheduler.Start(a.Config.ReconcileSchedule, a.Config.StatsSchedule); err != nil {
		return err
	}

	api.SetupGoGuardian(a.Config.JWTSecret)

	// initialize api router
	a.initializeRoutes()
	return nil
}

// Close stops the jobs and releases every connection
func (a *App) Close(ctx context.Context) {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			zap.S().Warnw("failed to drain nats", "error", err)
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			zap.S().Warnw("failed to close redis", "error", err)
		}
	}
	if a.client != nil {
		if err := a.client.Disconnect(ctx); err != nil {
			zap.S().Warnw("failed to disconnect from database", "error", err)
		}
	}
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
