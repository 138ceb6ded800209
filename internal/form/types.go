package form

import "errors"

// ErrUnknownField is returned when a field name is not part of the dialog's field set.
var ErrUnknownField = errors.New("form: unknown field")

// FieldName identifies a dialog field. Only the constants declared in this
// package are valid names.
type FieldName string

// Kind describes how a field is presented and populated.
type Kind string

const (
	KindText      Kind = "text"
	KindSelect    Kind = "select"
	KindHidden    Kind = "hidden"
	KindTimestamp Kind = "timestamp"
)

// Rule names a validation applied on submit.
type Rule string

// RuleRequired rejects empty values.
const RuleRequired Rule = "required"

// Option is a static choice offered by a select field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldDescriptor is the static configuration of a single field.
type FieldDescriptor struct {
	Name        FieldName
	Label       string
	Kind        Kind
	Default     string
	Options     []Option
	Validations []Rule

	// Resets marks a category field. Changing it resets every field in the
	// set to its default except the ones listed here.
	Resets []FieldName
}

// Validates reports whether the descriptor declares rule.
func (d FieldDescriptor) Validates(rule Rule) bool {
	for _, r := range d.Validations {
		if r == rule {
			return true
		}
	}
	return false
}

// IsCategory reports whether changing the field resets its siblings.
func (d FieldDescriptor) IsCategory() bool {
	return d.Resets != nil
}

// FieldSet is the ordered, fixed collection of fields of one dialog type.
type FieldSet []FieldDescriptor

// Lookup returns the descriptor for name.
func (fs FieldSet) Lookup(name FieldName) (FieldDescriptor, bool) {
	for _, d := range fs {
		if d.Name == name {
			return d, true
		}
	}
	return FieldDescriptor{}, false
}

// Names returns the field names in declaration order.
func (fs FieldSet) Names() []FieldName {
	names := make([]FieldName, 0, len(fs))
	for _, d := range fs {
		names = append(names, d.Name)
	}
	return names
}

// Values maps every field of a set to its current value.
type Values map[FieldName]string

// Clone returns a copy of v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Errors maps validated fields to their current message. An empty message
// means the field has no error.
type Errors map[FieldName]string

// Clone returns a copy of e.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for k, msg := range e {
		out[k] = msg
	}
	return out
}

// Any reports whether at least one field carries a message.
func (e Errors) Any() bool {
	for _, msg := range e {
		if msg != "" {
			return true
		}
	}
	return false
}

// State is the caller-owned state of one open dialog.
type State struct {
	Values Values `json:"values"`
	Errors Errors `json:"errors"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	return State{Values: s.Values.Clone(), Errors: s.Errors.Clone()}
}
