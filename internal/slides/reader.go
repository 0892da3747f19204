package slides

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Reader fetches template structures from the host.
type Reader struct {
	host HostClient
	log  logrus.FieldLogger
}

// NewReader creates a reader backed by host.
func NewReader(host HostClient, log logrus.FieldLogger) *Reader {
	return &Reader{host: host, log: log}
}

// Fetch reads the presentation and returns its template structure.
func (r *Reader) Fetch(ctx context.Context, presentationID string) (*TemplateStructure, error) {
	if presentationID == "" {
		return nil, &NotFoundError{}
	}

	p, err := r.host.Get(ctx, presentationID)
	if err != nil {
		return nil, hostFailure(presentationID, err)
	}
	if p.PresentationID == "" {
		p.PresentationID = presentationID
	}

	t := BuildTemplate(p)
	r.log.WithFields(logrus.Fields{
		"presentation": presentationID,
		"slides":       len(t.Slides),
		"elements":     t.ElementCount(),
	}).Info("template fetched")
	return t, nil
}

// hostFailure maps a HostClient error onto the error taxonomy. Bridge
// timeouts pass through untouched.
func hostFailure(presentationID string, err error) error {
	var timeout *BridgeTimeoutError
	if errors.As(err, &timeout) {
		return err
	}
	var he *HostError
	if errors.As(err, &he) {
		if he.Status == http.StatusNotFound {
			return &NotFoundError{PresentationID: presentationID}
		}
		return &UpstreamError{Source: SourceHost, Status: he.Status, Message: he.Message, Err: err}
	}
	return &UpstreamError{Source: SourceHost, Err: err}
}
