package dto

// Message types pushed to viewers over the websocket.
const (
	ViewFrame      = "frame"
	ViewClock      = "clock"
	ViewAttributes = "attributes"
)

// ViewMessage is the envelope broadcast to connected viewers.
type ViewMessage struct {
	Type       string           `json:"type"`
	Image      string           `json:"image,omitempty"` // base64 JPEG
	Text       string           `json:"text,omitempty"`
	Attributes *AttributeLabels `json:"attributes,omitempty"`
}
