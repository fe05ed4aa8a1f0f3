// ABOUTME: Value models upstream fields that arrive either as bare text or as an attributed element
// ABOUTME: Text() is the single coercion point; nothing else may stringify the raw shape

package feed

import (
	"encoding/json"
	"strconv"
)

// Value holds a field that upstream formats emit either as a plain
// string ("clojure") or as an attribute-bearing element whose text
// payload travels under "_" ({"_": "clojure", "domain": "..."}).
// RSS <guid isPermaLink="false"> and <category domain="..."> are the
// usual offenders. Rendering anything but the text payload produces
// stringified-object garbage in the output, so every consumer goes
// through Text().
type Value struct {
	text       string
	attributes map[string]string
	set        bool
}

// Text returns the text payload: "" for the zero Value, the string form
// of a primitive, or the "_" payload of an attributed element. The
// attribute map is never rendered.
func (v Value) Text() string {
	return v.text
}

// IsZero reports whether the value was never set.
func (v Value) IsZero() bool {
	return !v.set
}

// Attr returns a named attribute of an attributed value, or "".
func (v Value) Attr(name string) string {
	return v.attributes[name]
}

// NewValue wraps plain text.
func NewValue(text string) Value {
	return Value{text: text, set: true}
}

// NewAttributedValue wraps a text payload plus its element attributes.
func NewAttributedValue(text string, attributes map[string]string) Value {
	return Value{text: text, attributes: attributes, set: true}
}

// UnmarshalJSON accepts a bare string, a number or boolean (coerced to
// their string form), null (zero value), or an object carrying the text
// payload under "_" with the remaining keys kept as attributes.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = Value{}
	case string:
		*v = NewValue(t)
	case float64:
		*v = NewValue(strconv.FormatFloat(t, 'f', -1, 64))
	case bool:
		*v = NewValue(strconv.FormatBool(t))
	case map[string]interface{}:
		attrs := make(map[string]string, len(t))
		text := ""
		for key, val := range t {
			s, _ := val.(string)
			if key == "_" {
				text = s
				continue
			}
			attrs[key] = s
		}
		*v = NewAttributedValue(text, attrs)
	default:
		// Arrays and anything else have no sensible text payload.
		*v = Value{}
	}
	return nil
}

// MarshalJSON emits only the text payload.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte("null"), nil
	}
	return json.Marshal(v.text)
}
