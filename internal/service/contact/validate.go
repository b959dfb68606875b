package contact

import (
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const submissionSchema = `{
  "type": "object",
  "properties": {
    "name":    {"type": "string", "minLength": 2},
    "email":   {"type": "string", "format": "email", "pattern": "^[^@\\s]+@[^@\\s.]+(\\.[^@\\s.]+)+$"},
    "subject": {"type": "string", "minLength": 5},
    "message": {"type": "string", "minLength": 10}
  },
  "required": ["name", "email", "subject", "message"]
}`

var fieldMessages = map[string]string{
	"name":    "Name must be at least 2 characters.",
	"email":   "Please enter a valid email address.",
	"subject": "Subject must be at least 5 characters.",
	"message": "Message must be at least 10 characters.",
}

var schema = mustCompile(submissionSchema)

func mustCompile(raw string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic("contact: invalid submission schema: " + err.Error())
	}
	return s
}

// Submission is the contact form payload.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ValidationError lists the fields that failed with a human readable message each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid submission: " + strings.Join(names, ", ")
}

// Validate checks s against the submission schema.
func Validate(s Submission) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(s))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	fields := make(map[string]string, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		field := resultErr.Field()
		if prop, ok := resultErr.Details()["property"].(string); ok && field == "(root)" {
			field = prop
		}
		if msg, ok := fieldMessages[field]; ok {
			fields[field] = msg
		} else {
			fields[field] = resultErr.Description()
		}
	}
	return &ValidationError{Fields: fields}
}
