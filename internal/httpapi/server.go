package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"questd/internal/chat"
	"questd/internal/store"
	"questd/pkg/types"
)

// Conversation is the orchestrator surface the API needs.
type Conversation interface {
	HandleMessage(ctx context.Context, message string) (chat.Reply, error)
}

// SessionControl exposes the inference session's lifecycle to the API.
type SessionControl interface {
	Status() types.SessionStatus
	Reinitialize(ctx context.Context) error
	Ready() bool
}

// NewMux builds the HTTP router over the orchestrator, session and store.
func NewMux(conv Conversation, sess SessionControl, st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "X-Log-Level"},
	}))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/chat", handleChat(conv))

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sess.Status())
	})

	r.Post("/session/reinitialize", func(w http.ResponseWriter, r *http.Request) {
		if err := sess.Reinitialize(r.Context()); err != nil {
			if r.Context().Err() != nil {
				writeJSONError(w, http.StatusInternalServerError, err.Error())
				return
			}
			// A missing artifact or failed load is persistent session state,
			// not a request failure; the snapshot carries the cause.
		}
		writeJSON(w, http.StatusOK, sess.Status())
	})

	r.Get("/tasks", func(w http.ResponseWriter, r *http.Request) {
		tasks, err := st.ListTasks(r.Context())
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, types.TasksResponse{Tasks: tasks})
	})

	r.Delete("/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		err := st.DeleteTask(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, store.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Post("/tasks/{id}/complete", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		tasks, err := st.ListTasks(r.Context())
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		for _, task := range tasks {
			if task.ID != id {
				continue
			}
			task.Done = true
			task.CompletedAt = time.Now().Unix()
			if err := st.UpdateTask(r.Context(), task); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					writeJSONError(w, http.StatusNotFound, err.Error())
					return
				}
				writeJSONError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, task)
			return
		}
		writeJSONError(w, http.StatusNotFound, "task not found: "+id)
	})

	r.Post("/rewards", func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.RewardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Name) == "" || req.Cost <= 0 {
			writeJSONError(w, http.StatusBadRequest, "name and a positive cost are required")
			return
		}
		reward, err := st.InsertReward(r.Context(), strings.TrimSpace(req.Name), req.Cost)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, reward)
	})

	r.Get("/rewards", func(w http.ResponseWriter, r *http.Request) {
		rewards, err := st.ListRewards(r.Context())
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, types.RewardsResponse{Rewards: rewards})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		// Ready means the model is loaded. The daemon still serves chat in
		// rule-only mode when it is not; readiness reports reduced
		// functionality, not unavailability of the process.
		if sess.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(string(sess.Status().State)))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// handleChat runs one conversational turn.
//
// @Summary      Chat with the assistant
// @Accept       json
// @Produce      json
// @Param        request body types.ChatRequest true "user message"
// @Success      200 {object} types.ChatResponse
// @Failure      400 {object} types.ErrorResponse
// @Router       /chat [post]
func handleChat(conv Conversation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			writeJSONError(w, http.StatusBadRequest, "message is required")
			return
		}

		start := time.Now()
		lvl := requestLogLevel(r)
		if lvl >= LevelInfo && zlog != nil {
			z := zlog.Info().Str("path", r.URL.Path)
			if rid := middleware.GetReqID(r.Context()); rid != "" {
				z = z.Str("request_id", rid)
			}
			z.Msg("chat start")
		}

		joinedCtx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		reply, err := conv.HandleMessage(joinedCtx, req.Message)
		if err != nil {
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := http.StatusInternalServerError
			if errors.Is(err, chat.ErrEmptyMessage) {
				status = http.StatusBadRequest
			}
			writeJSONError(w, status, err.Error())
			if lvl >= LevelInfo && zlog != nil {
				zlog.Info().Int("status", status).Dur("dur", time.Since(start)).Err(err).Msg("chat end")
			}
			return
		}
		if !reply.FromModel {
			IncrementFallback(string(reply.Intent))
		}
		writeJSON(w, http.StatusOK, types.ChatResponse{
			Reply:     reply.Message,
			Intent:    reply.Intent,
			Task:      reply.Task,
			FromModel: reply.FromModel,
		})
		if lvl >= LevelInfo && zlog != nil {
			z := zlog.Info().Int("status", http.StatusOK).
				Str("intent", string(reply.Intent)).
				Bool("from_model", reply.FromModel).
				Dur("dur", time.Since(start))
			if rid := middleware.GetReqID(r.Context()); rid != "" {
				z = z.Str("request_id", rid)
			}
			z.Msg("chat end")
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}
