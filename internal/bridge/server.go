package bridge

import (
	"context"
	_ "embed"
	"errors"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

//go:embed helper.js
var HelperScript string

// Server accepts the page helper's websocket connection and serves the
// helper script itself. It also takes credential updates from local tools.
type Server struct {
	bridge        *Bridge
	log           logrus.FieldLogger
	upgrader      websocket.Upgrader
	setCredential func(string) error
}

// NewServer creates a server feeding b. A nil b serves only /credential.
func NewServer(b *Bridge, log logrus.FieldLogger) *Server {
	return &Server{
		bridge: b,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     allowedOrigin,
		},
	}
}

// allowedOrigin admits the Slides page and non-browser clients.
func allowedOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == "docs.google.com"
}

// OnCredential routes keys posted to /credential to set.
func (s *Server) OnCredential(set func(key string) error) {
	s.setCredential = set
}

// Handler returns the HTTP routes: /bridge for the websocket, /helper.js and
// /credential.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.bridge != nil {
		mux.HandleFunc("/bridge", s.handleBridge)
		mux.HandleFunc("/helper.js", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/javascript")
			w.Write([]byte(HelperScript))
		})
	}
	mux.HandleFunc("/credential", s.handleCredential)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.log.WithField("addr", addr).Info("panel server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleBridge(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("bridge upgrade failed")
		return
	}
	conn.SetReadLimit(32 * 1024 * 1024)

	pc := &pageConn{conn: conn}
	s.bridge.Attach(pc)
	log := s.log.WithField("remote", r.RemoteAddr)
	log.Info("page helper connected")

	defer func() {
		s.bridge.Detach(pc)
		conn.Close()
		log.Info("page helper disconnected")
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("bridge read failed")
			}
			return
		}
		s.bridge.Deliver(msg)
	}
}

// pageConn serialises writes; gorilla connections allow one writer at a time.
type pageConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (p *pageConn) Send(msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return p.conn.WriteJSON(msg)
}
