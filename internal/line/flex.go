package line

// FlexContainer is the top-level content of a flex message: a single bubble
// or a carousel of bubbles.
type FlexContainer interface {
	flexContainer()
}

// Carousel is a horizontally scrollable sequence of bubbles. Each bubble is
// rendered as one independent page.
type Carousel struct {
	Type     string   `json:"type"`
	Contents []Bubble `json:"contents"`
}

// NewCarousel builds a carousel container.
func NewCarousel(bubbles ...Bubble) Carousel {
	return Carousel{Type: "carousel", Contents: bubbles}
}

func (Carousel) flexContainer() {}

// Bubble is one renderable page of a flex message.
type Bubble struct {
	Type   string     `json:"type"`
	Size   string     `json:"size,omitempty"`
	Header *FlexBox   `json:"header,omitempty"`
	Hero   *FlexImage `json:"hero,omitempty"`
	Body   *FlexBox   `json:"body,omitempty"`
	Footer *FlexBox   `json:"footer,omitempty"`
}

// NewBubble builds a bubble page.
func NewBubble() Bubble {
	return Bubble{Type: "bubble"}
}

func (Bubble) flexContainer() {}

// FlexComponent is any element placed inside a box.
type FlexComponent interface {
	flexComponent()
}

// FlexBox lays out child components vertically, horizontally, or as a
// baseline row.
type FlexBox struct {
	Type            string          `json:"type"`
	Layout          string          `json:"layout"`
	Contents        []FlexComponent `json:"contents"`
	Spacing         string          `json:"spacing,omitempty"`
	Margin          string          `json:"margin,omitempty"`
	PaddingAll      string          `json:"paddingAll,omitempty"`
	BackgroundColor string          `json:"backgroundColor,omitempty"`
}

// NewBox builds a box with the given layout ("vertical", "horizontal",
// "baseline") and children.
func NewBox(layout string, contents ...FlexComponent) *FlexBox {
	return &FlexBox{Type: "box", Layout: layout, Contents: contents}
}

func (*FlexBox) flexComponent() {}

// FlexText renders a text run.
type FlexText struct {
	Type   string `json:"type"`
	Text   string `json:"text"`
	Size   string `json:"size,omitempty"`
	Weight string `json:"weight,omitempty"`
	Color  string `json:"color,omitempty"`
	Align  string `json:"align,omitempty"`
	Margin string `json:"margin,omitempty"`
	Wrap   bool   `json:"wrap,omitempty"`
	Flex   *int   `json:"flex,omitempty"`
}

// NewText builds a wrapping text component.
func NewText(text string) *FlexText {
	return &FlexText{Type: "text", Text: text, Wrap: true}
}

func (*FlexText) flexComponent() {}

// FlexImage renders an image from an absolute URL.
type FlexImage struct {
	Type        string      `json:"type"`
	URL         string      `json:"url"`
	Size        string      `json:"size,omitempty"`
	AspectRatio string      `json:"aspectRatio,omitempty"`
	AspectMode  string      `json:"aspectMode,omitempty"`
	Margin      string      `json:"margin,omitempty"`
	Action      *FlexAction `json:"action,omitempty"`
}

// NewImage builds an image component.
func NewImage(url string) *FlexImage {
	return &FlexImage{Type: "image", URL: url, Size: "full"}
}

func (*FlexImage) flexComponent() {}

// FlexButton renders a tappable button.
type FlexButton struct {
	Type   string      `json:"type"`
	Style  string      `json:"style,omitempty"`
	Height string      `json:"height,omitempty"`
	Margin string      `json:"margin,omitempty"`
	Action *FlexAction `json:"action"`
}

// NewURIButton builds a button that opens url.
func NewURIButton(label, url string) *FlexButton {
	return &FlexButton{
		Type:   "button",
		Style:  "link",
		Action: &FlexAction{Type: "uri", Label: label, URI: url},
	}
}

func (*FlexButton) flexComponent() {}

// FlexSeparator renders a horizontal rule.
type FlexSeparator struct {
	Type   string `json:"type"`
	Margin string `json:"margin,omitempty"`
	Color  string `json:"color,omitempty"`
}

// NewSeparator builds a separator.
func NewSeparator() *FlexSeparator {
	return &FlexSeparator{Type: "separator"}
}

func (*FlexSeparator) flexComponent() {}

// FlexAction describes what happens when a component is tapped.
type FlexAction struct {
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
	URI   string `json:"uri,omitempty"`
	Text  string `json:"text,omitempty"`
}
