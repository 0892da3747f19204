package bridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sant0-9/deckfill/internal/slides"
)

// HostClient reads and writes presentations through the page helper.
type HostClient struct {
	bridge *Bridge
}

var _ slides.HostClient = (*HostClient)(nil)

// NewHostClient adapts b to slides.HostClient.
func NewHostClient(b *Bridge) *HostClient {
	return &HostClient{bridge: b}
}

func (h *HostClient) Get(ctx context.Context, presentationID string) (*slides.Presentation, error) {
	resp, err := h.bridge.Call(ctx, Message{Type: TypeGetPresentation, PresentationID: presentationID})
	if err != nil {
		return nil, err
	}

	switch resp.Type {
	case TypePresentationData:
		var p slides.Presentation
		if err := json.Unmarshal(resp.Data, &p); err != nil {
			return nil, fmt.Errorf("decode presentation: %w", err)
		}
		return &p, nil
	default:
		return nil, &slides.HostError{Status: resp.Status, Message: resp.Error}
	}
}

func (h *HostClient) BatchUpdate(ctx context.Context, presentationID string, requests []slides.Request) error {
	resp, err := h.bridge.Call(ctx, Message{Type: TypeBatchUpdate, PresentationID: presentationID, Requests: requests})
	if err != nil {
		return err
	}

	if resp.Type == TypeUpdateSuccess {
		return nil
	}
	return &slides.HostError{Status: resp.Status, Message: resp.Error}
}
