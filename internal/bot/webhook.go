package bot

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// WebhookPath is where Telegram posts updates.
const WebhookPath = "/webhook"

// SecretHeader carries the secret token registered with setWebhook.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

const maxUpdateBytes = 1 << 20

// UpdateHandler processes one Telegram update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, u tgbotapi.Update) error
}

// Server receives webhook deliveries.
type Server struct {
	handler UpdateHandler
	secret  string
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a webhook server listening on addr. An empty secret
// disables the header check.
func NewServer(addr, secret string, h UpdateHandler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{handler: h, secret: secret, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+WebhookPath, s.handleWebhook)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("webhook: listen on %s: %w", s.server.Addr, err)
	}
	s.logger.Info("webhook server listening", zap.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() { errCh <- s.server.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("webhook: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("webhook: shutdown: %w", err)
	}
	<-errCh
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if s.secret != "" {
		got := r.Header.Get(SecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.secret)) != 1 {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
	}

	var u tgbotapi.Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateBytes)).Decode(&u); err != nil {
		// Redelivering a broken update will not fix it.
		s.logger.Warn("undecodable update", zap.Error(err))
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := s.handler.HandleUpdate(r.Context(), u); err != nil {
		s.logger.Error("handle update", zap.Int("update_id", u.UpdateID), zap.Error(err))
		http.Error(w, "delivery failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
