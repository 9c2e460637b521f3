package classroom

import (
	"github.com/dkasongo/darasa/core"
)

// Validate checks the class summary fields.
func (c Classroom) Validate() error {
	var flds []core.FieldError
	if c.ID == "" {
		flds = append(flds, core.FieldError{Field: "id", Error: "this field is required"})
	}
	if core.CleanString(c.Name) == "" {
		flds = append(flds, core.FieldError{Field: "name", Error: "this field is required"})
	}
	if !c.Type.Valid() {
		flds = append(flds, core.FieldError{Field: "type", Error: "must be MODULAR or TERM"})
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}
