package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// ActionAnalyzeChat asks the overlay to extract the page and analyze it
const ActionAnalyzeChat = "analyzeChat"

// Command is the message a toolbar button or script sends to the overlay
type Command struct {
	Action  string `json:"action"`
	Context string `json:"context,omitempty"`
}

// CommandResponse acknowledges a Command
type CommandResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// CommandHandler exposes the overlay over HTTP
func CommandHandler(overlay *Overlay) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*", "chrome-extension://*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Post("/command", func(w http.ResponseWriter, req *http.Request) {
		var cmd Command
		if err := json.NewDecoder(req.Body).Decode(&cmd); err != nil {
			writeJSON(w, http.StatusBadRequest, CommandResponse{Error: fmt.Sprintf("invalid command: %v", err)})
			return
		}

		switch cmd.Action {
		case ActionAnalyzeChat:
			overlay.Analyze(req.Context(), cmd.Context)
			writeJSON(w, http.StatusOK, CommandResponse{Success: true})
		default:
			writeJSON(w, http.StatusBadRequest, CommandResponse{Error: fmt.Sprintf("unknown action: %q", cmd.Action)})
		}
	})

	r.Get("/session", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, overlay.Session().Snapshot())
	})

	r.Get("/dashboard", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, overlay.Dashboard().Snapshot())
	})

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		LogWarn("Failed to write response: %v", err)
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		LogDebug("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
