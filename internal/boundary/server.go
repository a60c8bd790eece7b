package boundary

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"time"
)

// Server exposes the boundary over local HTTP: POST /rpc/{op} with a JSON
// payload body. Requests serialize naturally; one request is handled to
// completion before its side effects are visible to the next.
type Server struct {
	handler *Handler
	addr    string
	quiet   bool

	server *http.Server
}

func NewServer(h *Handler, addr string) *Server {
	return &Server{handler: h, addr: addr}
}

// SetQuiet suppresses per-request logging (used by tests).
func (s *Server) SetQuiet(q bool) { s.quiet = q }

type responseEnvelope struct {
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /rpc/{op}", s.handleRPC)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	op := r.PathValue("op")
	start := time.Now()

	body, err := io.ReadAll(io.LimitReader(r.Body, 32<<20))
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, responseEnvelope{Error: badRequest("read body: %v", err)})
		return
	}

	var payload json.RawMessage
	if len(body) > 0 {
		payload = json.RawMessage(body)
	}

	data, berr := s.handler.Dispatch(r.Context(), op, payload)
	if !s.quiet {
		log.Printf("rpc %s %s", op, time.Since(start).Round(time.Microsecond))
	}
	if berr != nil {
		writeEnvelope(w, statusFor(berr.Code), responseEnvelope{Error: berr})
		return
	}
	writeEnvelope(w, http.StatusOK, responseEnvelope{Data: data})
}

func statusFor(code string) int {
	switch code {
	case CodeNotFound, CodeUnknownOp:
		return http.StatusNotFound
	case CodeAlreadyStopped:
		return http.StatusConflict
	case CodeInvalidFormat, CodeBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeEnvelope(w http.ResponseWriter, status int, env responseEnvelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// ListenAndServe runs the server until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	if !s.quiet {
		log.Printf("tempo boundary listening on %s", ln.Addr())
	}

	s.server = &http.Server{Handler: s.routes()}

	errCh := make(chan error, 1)
	go func() { errCh <- s.server.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
