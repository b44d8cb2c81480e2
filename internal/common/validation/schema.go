package validation

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Form names a schema under schemas/.
type Form string

const (
	FormLogin               Form = "login"
	FormStudentRegistration Form = "student_registration"
	FormCompanyRegistration Form = "company_registration"
	FormInternship          Form = "internship"
	FormApplication         Form = "application"
	FormMessage             Form = "message"
	FormContact             Form = "contact"
	FormSettings            Form = "settings"
	FormStudentProfile      Form = "student_profile"
	FormCompanyProfile      Form = "company_profile"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

var (
	schemaMu    sync.Mutex
	schemaCache = map[Form]*gojsonschema.Schema{}
)

func loadSchema(form Form) (*gojsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()

	if s, ok := schemaCache[form]; ok {
		return s, nil
	}
	raw, err := schemaFS.ReadFile("schemas/" + string(form) + ".json")
	if err != nil {
		return nil, fmt.Errorf("unknown form %q: %w", form, err)
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid schema %q: %w", form, err)
	}
	schemaCache[form] = s
	return s, nil
}

// Validate checks input against the named form schema. input is any value
// that marshals to a JSON object, usually one of the models request types.
func Validate(form Form, input interface{}) (*ValidationResult, error) {
	schema, err := loadSchema(form)
	if err != nil {
		return nil, err
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(input))
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", form, err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   fieldName(desc),
			Message: friendlyMessage(desc),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out, nil
}

// fieldName resolves the offending property. Required errors are reported
// against the root object with the property in the details.
func fieldName(desc gojsonschema.ResultError) string {
	if desc.Type() == "required" {
		if prop, ok := desc.Details()["property"].(string); ok {
			return prop
		}
	}
	field := desc.Field()
	if field == gojsonschema.STRING_CONTEXT_ROOT {
		return ""
	}
	return field
}

func friendlyMessage(desc gojsonschema.ResultError) string {
	details := desc.Details()
	switch desc.Type() {
	case "required":
		return "This field is required"
	case "format":
		if details["format"] == "email" {
			return "Enter a valid email address"
		}
		if details["format"] == "date-time" {
			return "Enter a valid date"
		}
	case "string_gte":
		return fmt.Sprintf("Must be at least %v characters", details["min"])
	case "string_lte":
		return fmt.Sprintf("Must be at most %v characters", details["max"])
	case "number_gte":
		return fmt.Sprintf("Must be at least %v", details["min"])
	case "number_lte":
		return fmt.Sprintf("Must be at most %v", details["max"])
	case "enum":
		return "Choose one of the listed options"
	case "pattern":
		return "Enter a link starting with http:// or https://"
	}
	return desc.Description()
}

// Add appends a hand-written check that the schema language cannot express.
func (vr *ValidationResult) Add(field, message, code string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message, Code: code})
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		if err.Field == "" {
			messages[i] = err.Message
			continue
		}
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// FieldErrors keeps the first message per field, for inline rendering.
func (vr *ValidationResult) FieldErrors() map[string]string {
	out := make(map[string]string, len(vr.Errors))
	for _, err := range vr.Errors {
		key := err.Field
		if idx := strings.IndexByte(key, '.'); idx > 0 {
			key = key[:idx]
		}
		if _, seen := out[key]; !seen {
			out[key] = err.Message
		}
	}
	return out
}
