// Package thing is the presentation side of the service: WebThings-style
// thing descriptions with concurrency-safe property values that the
// sensor updaters publish into.
package thing

import (
	"sync"

	"github.com/google/uuid"
)

const schemaContext = "https://webthings.io/schemas"

// PropertyMetadata is the schema fragment describing one property.
type PropertyMetadata struct {
	AtType      string   `json:"@type,omitempty"`
	Title       string   `json:"title,omitempty"`
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty"`
	Maximum     *float64 `json:"maximum,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	ReadOnly    bool     `json:"readOnly,omitempty"`
}

// Property holds one published value. A nil value means "unknown".
type Property struct {
	Name     string
	Metadata PropertyMetadata

	mu    sync.RWMutex
	value float64
	known bool
}

// Set publishes a new numeric value.
func (p *Property) Set(v float64) {
	p.mu.Lock()
	p.value = v
	p.known = true
	p.mu.Unlock()
}

// SetUnknown marks the value as currently unavailable.
func (p *Property) SetUnknown() {
	p.mu.Lock()
	p.known = false
	p.mu.Unlock()
}

// Value returns the current value and whether it is known.
func (p *Property) Value() (float64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value, p.known
}

// Thing is one addressable sensor object with its properties.
type Thing struct {
	ID          string
	Title       string
	Types       []string
	Description string

	order      []string
	properties map[string]*Property
}

func New(title string, types []string, description string) *Thing {
	return &Thing{
		ID:          "urn:uuid:" + uuid.NewString(),
		Title:       title,
		Types:       types,
		Description: description,
		properties:  make(map[string]*Property),
	}
}

// AddProperty declares a property. Must be called before the thing is
// shared with updaters or the API.
func (t *Thing) AddProperty(name string, meta PropertyMetadata) {
	t.order = append(t.order, name)
	t.properties[name] = &Property{Name: name, Metadata: meta}
}

// Property returns a declared property by name.
func (t *Thing) Property(name string) (*Property, bool) {
	p, ok := t.properties[name]
	return p, ok
}

// Publish implements the sensor sink for known values. Publishing to an
// undeclared property is a no-op.
func (t *Thing) Publish(property string, value float64) {
	if p, ok := t.properties[property]; ok {
		p.Set(value)
	}
}

// PublishUnknown implements the sensor sink for unavailable values.
func (t *Thing) PublishUnknown(property string) {
	if p, ok := t.properties[property]; ok {
		p.SetUnknown()
	}
}

// Describe returns the JSON-ready thing description.
func (t *Thing) Describe() map[string]interface{} {
	props := make(map[string]PropertyMetadata, len(t.properties))
	for name, p := range t.properties {
		props[name] = p.Metadata
	}
	return map[string]interface{}{
		"id":          t.ID,
		"title":       t.Title,
		"@context":    schemaContext,
		"@type":       t.Types,
		"description": t.Description,
		"properties":  props,
	}
}

// Values returns the current value of every property, nil for unknown,
// in declaration order as a name-keyed map.
func (t *Thing) Values() map[string]*float64 {
	out := make(map[string]*float64, len(t.order))
	for _, name := range t.order {
		if v, known := t.properties[name].Value(); known {
			v := v
			out[name] = &v
		} else {
			out[name] = nil
		}
	}
	return out
}
