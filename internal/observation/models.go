package observation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Query asks for the observations of one category for a resolved patient.
type Query struct {
	PatientID string
	Category  string
}

// Measurement is one named value of an observation, e.g. "systolic: 120 mmHg".
type Measurement struct {
	Name  string
	Value string
	Unit  string
}

// Observation is one timestamped data point. Measurements keep the key order
// of the fetch tool's response.
type Observation struct {
	Timestamp    string
	Measurements []Measurement
}

// Result is the fetch tool's answer. Category is the label the tool reports,
// which wins over the requested one.
type Result struct {
	Category     string
	Observations []Observation
}

type resultWire struct {
	Type         string        `json:"type"`
	Category     string        `json:"category"`
	Observations []Observation `json:"observations"`
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var wire resultWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	r.Category = wire.Category
	if r.Category == "" {
		r.Category = wire.Type
	}
	r.Observations = wire.Observations
	return nil
}

const timestampKey = "timestamp"

// UnmarshalJSON walks the object token by token to keep measurement order.
// Keys whose value is not an object are not measurements and are skipped.
func (o *Observation) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("observation: expected object, got %v", tok)
	}

	*o = Observation{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("observation: expected key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if key == timestampKey {
			o.Timestamp = scalarText(raw)
			continue
		}
		var m struct {
			Value json.RawMessage `json:"value"`
			Unit  json.RawMessage `json:"unit"`
		}
		if !isObject(raw) || json.Unmarshal(raw, &m) != nil {
			continue
		}
		o.Measurements = append(o.Measurements, Measurement{
			Name:  key,
			Value: scalarText(m.Value),
			Unit:  scalarText(m.Unit),
		})
	}
	_, err = dec.Token()
	return err
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// scalarText renders strings unquoted and any other JSON value verbatim.
func scalarText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	return string(trimmed)
}

// Render formats an observation as one chat message: the timestamp line,
// then one indented line per measurement.
func Render(o Observation) string {
	var b strings.Builder
	b.WriteString(o.Timestamp)
	b.WriteString("\n")
	for _, m := range o.Measurements {
		fmt.Fprintf(&b, "  %s: %s %s\n", m.Name, m.Value, m.Unit)
	}
	return b.String()
}
