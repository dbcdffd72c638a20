// Package form binds records into editable, schema-validated form state.
//
// Schemas are declared with `validate` struct tags (go-playground/validator)
// on flat form structs. Field names exposed to callers are the `json` names;
// `label` tags provide the human name used in messages.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"repairshop/common"
)

var (
	zipPattern   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	phonePattern = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
)

// ErrUnknownField is returned when a field name is not part of the form.
var ErrUnknownField = errors.New("unknown form field")

// ValidationError maps json field names to messages.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Schema validates form structs. It is safe for concurrent use.
type Schema struct {
	validate *validator.Validate
	fields   sync.Map // reflect.Type -> *fieldIndex
}

type fieldIndex struct {
	goName map[string]string // json name -> struct field name
	label  map[string]string // json name -> label
}

// NewSchema creates a validator with the region, zipcode and usphone tags registered
func NewSchema() *Schema {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)

	// Registration only fails on empty tags or nil funcs.
	_ = v.RegisterValidation("region", func(fl validator.FieldLevel) bool {
		return common.IsState(fl.Field().String())
	})
	_ = v.RegisterValidation("zipcode", func(fl validator.FieldLevel) bool {
		return zipPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("usphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	return &Schema{validate: v}
}

// Validate checks every field of v. It returns nil or a *ValidationError.
func (s *Schema) Validate(v any) error {
	return s.translate(v, s.validate.Struct(v))
}

// ValidateField checks a single field of v by json name and returns its
// message, or "" when the field is valid.
func (s *Schema) ValidateField(v any, field string) (string, error) {
	idx := s.index(reflect.TypeOf(v))
	goName, ok := idx.goName[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	err := s.translate(v, s.validate.StructPartial(v, goName))
	if err == nil {
		return "", nil
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields[field], nil
	}
	return "", err
}

// HasField reports whether v's form type declares field.
func (s *Schema) HasField(v any, field string) bool {
	_, ok := s.index(reflect.TypeOf(v)).goName[field]
	return ok
}

func (s *Schema) translate(v any, err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid form value: %w", err)
	}

	idx := s.index(reflect.TypeOf(v))
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = message(fe, idx.labelFor(name))
	}
	return &ValidationError{Fields: fields}
}

func (s *Schema) index(t reflect.Type) *fieldIndex {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if cached, ok := s.fields.Load(t); ok {
		return cached.(*fieldIndex)
	}

	idx := &fieldIndex{goName: map[string]string{}, label: map[string]string{}}
	if t != nil && t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := jsonName(f)
			if name == "" || !f.IsExported() {
				continue
			}
			idx.goName[name] = f.Name
			if label := f.Tag.Get("label"); label != "" {
				idx.label[name] = label
			}
		}
	}

	actual, _ := s.fields.LoadOrStore(t, idx)
	return actual.(*fieldIndex)
}

func (idx *fieldIndex) labelFor(name string) string {
	if label, ok := idx.label[name]; ok {
		return label
	}
	return name
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func message(fe validator.FieldError, label string) string {
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Invalid email address"
	case "region":
		return "Invalid state"
	case "zipcode":
		return "Invalid Zip code. Use 5 digits or 5 digits followed by a hyphen and 4 digits"
	case "usphone":
		return "Invalid phone number format. Use XXX-XXX-XXXX"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}
