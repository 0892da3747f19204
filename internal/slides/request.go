package slides

// Request is one batchUpdate operation. Exactly one field is set.
type Request struct {
	DeleteText *DeleteTextRequest `json:"deleteText,omitempty"`
	InsertText *InsertTextRequest `json:"insertText,omitempty"`
}

// DeleteTextRequest removes text from a shape.
type DeleteTextRequest struct {
	ObjectID  string `json:"objectId"`
	TextRange Range  `json:"textRange"`
}

// Range selects text within a shape. Only RangeAll is used.
type Range struct {
	Type string `json:"type"`
}

// RangeAll selects the whole text of a shape.
const RangeAll = "ALL"

// InsertTextRequest inserts text into a shape.
type InsertTextRequest struct {
	ObjectID       string `json:"objectId"`
	Text           string `json:"text"`
	InsertionIndex int    `json:"insertionIndex"`
}

// DeleteAll builds a request clearing every character of objectID.
func DeleteAll(objectID string) Request {
	return Request{DeleteText: &DeleteTextRequest{
		ObjectID:  objectID,
		TextRange: Range{Type: RangeAll},
	}}
}

// InsertAtStart builds a request inserting text at index 0 of objectID.
func InsertAtStart(objectID, text string) Request {
	return Request{InsertText: &InsertTextRequest{
		ObjectID:       objectID,
		Text:           text,
		InsertionIndex: 0,
	}}
}
