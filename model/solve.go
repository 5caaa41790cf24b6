package model

// SolvePart is one piece of a submitted question: plain text and/or an
// inline base64-encoded image.
type SolvePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData model
type InlineData struct {
	MimeType string `json:"mimeType" validate:"required"`
	Data     string `json:"data" validate:"required"`
}

// SolveRequest model
type SolveRequest struct {
	Parts []SolvePart `json:"parts" validate:"required,min=1,dive"`
}

// Solution is the structured explanation returned by the model. The JSON
// field names are Turkish because the web client renders them as-is.
type Solution struct {
	Topic        string `json:"konu"`
	Asked        string `json:"istenilen"`
	Given        string `json:"verilenler"`
	Steps        string `json:"cozum"`
	Result       string `json:"sonuc"`
	TopicSummary string `json:"konuOzet"`
}
