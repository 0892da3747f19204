package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sant0-9/deckfill/internal/config"
)

type credentialBody struct {
	Key string `json:"key"`
}

// handleCredential accepts a new API key from a local process such as
// `deckfill key set`. Browser requests carry an Origin and are refused.
func (s *Server) handleCredential(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.Header.Get("Origin") != "" {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if s.setCredential == nil {
		http.Error(w, "no panel is accepting keys", http.StatusServiceUnavailable)
		return
	}

	var body credentialBody
	if err := json.NewDecoder(io.LimitReader(r.Body, 8*1024)).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := s.setCredential(body.Key); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, config.ErrEmptyKey) {
			status = http.StatusBadRequest
		}
		s.log.WithError(err).Warn("credential update rejected")
		http.Error(w, err.Error(), status)
		return
	}

	s.log.Info("credential updated by local client")
	w.WriteHeader(http.StatusNoContent)
}

// PushCredential hands key to the panel listening on addr. It fails when no
// panel is open there.
func PushCredential(ctx context.Context, addr, key string) error {
	body, err := json.Marshal(credentialBody{Key: key})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://"+addr+"/credential", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("panel refused key: %s: %s", resp.Status, bytes.TrimSpace(msg))
	}
	return nil
}
