package gemini

const (
	TypeObject  = "OBJECT"
	TypeString  = "STRING"
	TypeArray   = "ARRAY"
	TypeBoolean = "BOOLEAN"
)

// Schema is the OpenAPI subset accepted by generationConfig.responseSchema.
type Schema struct {
	Type             string             `json:"type"`
	Description      string             `json:"description,omitempty"`
	Properties       map[string]*Schema `json:"properties,omitempty"`
	Required         []string           `json:"required,omitempty"`
	PropertyOrdering []string           `json:"propertyOrdering,omitempty"`
	Items            *Schema            `json:"items,omitempty"`
	Nullable         bool               `json:"nullable,omitempty"`
}

type ImageInput struct {
	DataBase64 string
	MimeType   string
}

type GenerateRequest struct {
	Model       string
	Instruction string
	Image       *ImageInput
	Schema      *Schema
	Temperature float64
	TopP        float64
}

type Response struct {
	Text   string
	Images []string
}

// Operation is a long-running video job as reported by the operations endpoint.
type Operation struct {
	Name      string
	Done      bool
	VideoURIs []string
	Error     string
}
