package form

import (
	"fmt"
	"strconv"
	"time"
)

// TimestampField is present in every dialog as a cache-busting key.
const TimestampField FieldName = "timestamp"

// Controller applies state transitions for a single dialog type. It holds no
// per-dialog state; every operation takes and returns a State.
type Controller struct {
	Fields FieldSet
	Now    func() time.Time
}

// NewController creates a Controller for fields using the wall clock.
func NewController(fields FieldSet) *Controller {
	return &Controller{Fields: fields, Now: time.Now}
}

// Initialize builds the opening state from field defaults and seed.
// Seed entries for names outside the field set are ignored.
func (c *Controller) Initialize(seed Values) State {
	st := State{
		Values: make(Values, len(c.Fields)),
		Errors: make(Errors),
	}

	for _, d := range c.Fields {
		st.Values[d.Name] = c.defaultFor(d)
		if len(d.Validations) > 0 {
			st.Errors[d.Name] = ""
		}
	}

	for name, value := range seed {
		if _, ok := st.Values[name]; ok {
			st.Values[name] = value
		}
	}

	return st
}

// Reset returns the dialog to its defaults with all errors cleared.
func (c *Controller) Reset() State {
	return c.Initialize(nil)
}

// SetField returns st with field set to value. Category fields reset the rest
// of the set to defaults, keeping only the fields they carry.
func (c *Controller) SetField(st State, field FieldName, value string) (State, error) {
	d, ok := c.Fields.Lookup(field)
	if !ok {
		return st, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	if !d.IsCategory() {
		next := st.Clone()
		next.Values[field] = value
		if _, ok := next.Errors[field]; ok {
			next.Errors[field] = ""
		}
		return next, nil
	}

	next := c.Reset()
	for _, keep := range d.Resets {
		if v, ok := st.Values[keep]; ok {
			next.Values[keep] = v
		}
		if msg, ok := st.Errors[keep]; ok {
			next.Errors[keep] = msg
		}
	}
	next.Values[field] = value

	return next, nil
}

// Validate checks values against the declared rules. The returned Errors only
// contains failing fields.
func (c *Controller) Validate(values Values) (bool, Errors) {
	errs := make(Errors)
	for _, d := range c.Fields {
		if d.Validates(RuleRequired) && values[d.Name] == "" {
			errs[d.Name] = fmt.Sprintf("%s is required", d.Label)
		}
	}
	return len(errs) == 0, errs
}

func (c *Controller) defaultFor(d FieldDescriptor) string {
	if d.Name == TimestampField || d.Kind == KindTimestamp {
		now := time.Now
		if c.Now != nil {
			now = c.Now
		}
		return strconv.FormatInt(now().UnixMilli(), 10)
	}
	return d.Default
}
