package slides

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// Writer applies update plans to the live presentation. The batch is atomic
// only when the host's batch endpoint is; nothing here rolls back.
type Writer struct {
	host HostClient
	log  logrus.FieldLogger
}

// NewWriter creates a writer backed by host.
func NewWriter(host HostClient, log logrus.FieldLogger) *Writer {
	return &Writer{host: host, log: log}
}

// BuildRequests turns a plan into delete/insert pairs in plan order.
func BuildRequests(plan *UpdatePlan) []Request {
	requests := make([]Request, 0, plan.UpdateCount()*2)
	for _, s := range plan.Slides {
		for _, u := range s.Updates {
			requests = append(requests, DeleteAll(u.ObjectID), InsertAtStart(u.ObjectID, u.Text))
		}
	}
	return requests
}

// Apply submits the plan as a single batch.
func (w *Writer) Apply(ctx context.Context, presentationID string, plan *UpdatePlan) error {
	requests := BuildRequests(plan)
	if len(requests) == 0 {
		w.log.WithField("presentation", presentationID).Info("plan has no updates, nothing to apply")
		return nil
	}

	if err := w.host.BatchUpdate(ctx, presentationID, requests); err != nil {
		var timeout *BridgeTimeoutError
		if errors.As(err, &timeout) {
			return err
		}
		var he *HostError
		if errors.As(err, &he) {
			return &UpstreamError{Source: SourceHost, Status: he.Status, Message: he.Message, Err: err}
		}
		return &UpstreamError{Source: SourceHost, Err: err}
	}

	w.log.WithFields(logrus.Fields{
		"presentation": presentationID,
		"requests":     len(requests),
	}).Info("batch update applied")
	return nil
}
