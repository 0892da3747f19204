package bridge

import (
	"encoding/json"

	"github.com/sant0-9/deckfill/internal/slides"
)

// Request tags, sent to the page.
const (
	TypeGetPresentation = "GET_PRESENTATION"
	TypeBatchUpdate     = "BATCH_UPDATE"
)

// Response tags, sent back by the page.
const (
	TypePresentationData  = "PRESENTATION_DATA"
	TypePresentationError = "PRESENTATION_ERROR"
	TypeUpdateSuccess     = "UPDATE_SUCCESS"
	TypeUpdateError       = "UPDATE_ERROR"
)

// Message is the wire format in both directions. ID correlates a response
// with its request.
type Message struct {
	ID             string           `json:"id"`
	Type           string           `json:"type"`
	PresentationID string           `json:"presentationId,omitempty"`
	Requests       []slides.Request `json:"requests,omitempty"`
	Data           json.RawMessage  `json:"data,omitempty"`
	Error          string           `json:"error,omitempty"`
	Status         int              `json:"status,omitempty"`
}

// expectedResponses lists the tags that may answer each request tag.
var expectedResponses = map[string][]string{
	TypeGetPresentation: {TypePresentationData, TypePresentationError},
	TypeBatchUpdate:     {TypeUpdateSuccess, TypeUpdateError},
}

func answers(reqType, respType string) bool {
	for _, t := range expectedResponses[reqType] {
		if t == respType {
			return true
		}
	}
	return false
}
