// Package validator collects per-field problems found in request input.
package validator

// MsgRequired is reported for a required field that is absent or empty.
const MsgRequired = "must be provided"

// Validator maps field names to the first problem found for each.
type Validator struct {
	Errors map[string]string
}

func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid reports whether no problems were recorded.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records message for field unless field already has one.
func (v *Validator) AddError(field, message string) {
	if _, exists := v.Errors[field]; exists {
		return
	}
	v.Errors[field] = message
}

// Check records message for field when ok is false.
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Required flags field when value is the empty string. Whitespace counts
// as a value.
func (v *Validator) Required(field, value string) {
	v.Check(value != "", field, MsgRequired)
}

// RequiredInt flags field when n is zero, the decoded form of an absent number.
func (v *Validator) RequiredInt(field string, n int) {
	v.Check(n != 0, field, MsgRequired)
}
