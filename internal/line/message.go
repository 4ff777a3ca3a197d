package line

// Message is any outbound Messaging API message.
type Message interface {
	messageType() string
}

// TextMessage is a plain text message.
type TextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NewTextMessage builds a text message.
func NewTextMessage(text string) TextMessage {
	return TextMessage{Type: "text", Text: text}
}

func (TextMessage) messageType() string { return "text" }

// FlexMessage is a rich message whose contents are a bubble or carousel.
// AltText is shown on clients that cannot render flex content.
type FlexMessage struct {
	Type     string        `json:"type"`
	AltText  string        `json:"altText"`
	Contents FlexContainer `json:"contents"`
}

// NewFlexMessage builds a flex message.
func NewFlexMessage(altText string, contents FlexContainer) FlexMessage {
	return FlexMessage{Type: "flex", AltText: altText, Contents: contents}
}

func (FlexMessage) messageType() string { return "flex" }
