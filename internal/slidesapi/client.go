// Package slidesapi reads and writes presentations through the Google Slides
// REST API directly, for use when no browser tab is available.
package slidesapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	slidesv1 "google.golang.org/api/slides/v1"

	"github.com/sant0-9/deckfill/internal/slides"
)

// Client implements slides.HostClient over the Slides API.
type Client struct {
	svc *slidesv1.Service
}

var _ slides.HostClient = (*Client)(nil)

// New builds a client from a service account or OAuth credentials file.
// Extra options are appended, which tests use to point at a fake endpoint.
func New(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*Client, error) {
	var all []option.ClientOption
	if credentialsFile != "" {
		all = append(all,
			option.WithCredentialsFile(credentialsFile),
			option.WithScopes(slidesv1.PresentationsScope),
		)
	}
	all = append(all, opts...)

	svc, err := slidesv1.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("create slides service: %w", err)
	}
	return &Client{svc: svc}, nil
}

func (c *Client) Get(ctx context.Context, presentationID string) (*slides.Presentation, error) {
	p, err := c.svc.Presentations.Get(presentationID).Context(ctx).Do()
	if err != nil {
		return nil, hostError(err)
	}

	// The API types share the JSON shape of slides.Presentation.
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode presentation: %w", err)
	}
	var out slides.Presentation
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode presentation: %w", err)
	}
	return &out, nil
}

func (c *Client) BatchUpdate(ctx context.Context, presentationID string, requests []slides.Request) error {
	body := &slidesv1.BatchUpdatePresentationRequest{Requests: toAPIRequests(requests)}
	if _, err := c.svc.Presentations.BatchUpdate(presentationID, body).Context(ctx).Do(); err != nil {
		return hostError(err)
	}
	return nil
}

func toAPIRequests(requests []slides.Request) []*slidesv1.Request {
	out := make([]*slidesv1.Request, 0, len(requests))
	for _, r := range requests {
		switch {
		case r.DeleteText != nil:
			out = append(out, &slidesv1.Request{DeleteText: &slidesv1.DeleteTextRequest{
				ObjectId:  r.DeleteText.ObjectID,
				TextRange: &slidesv1.Range{Type: r.DeleteText.TextRange.Type},
			}})
		case r.InsertText != nil:
			out = append(out, &slidesv1.Request{InsertText: &slidesv1.InsertTextRequest{
				ObjectId:        r.InsertText.ObjectID,
				Text:            r.InsertText.Text,
				InsertionIndex:  int64(r.InsertText.InsertionIndex),
				ForceSendFields: []string{"InsertionIndex"},
			}})
		}
	}
	return out
}

func hostError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &slides.HostError{Status: gerr.Code, Message: gerr.Message}
	}
	return err
}
