package formatter

import (
	"encoding/json"

	"github.com/theoremus-urban-solutions/truck-simulator/siri"
)

// ResponseBuilder serializes SIRI responses
type ResponseBuilder struct{}

// NewResponseBuilder creates a new response builder for formatting SIRI responses
func NewResponseBuilder() *ResponseBuilder {
	return &ResponseBuilder{}
}

// BuildJSON serializes a SIRI response to JSON
func (rb *ResponseBuilder) BuildJSON(res *siri.SiriResponse) ([]byte, error) {
	return json.Marshal(res)
}
