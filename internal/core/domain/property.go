package domain

import (
	"fmt"
	"strings"
)

// PropertyID identifies an adjustable image parameter
type PropertyID int

const (
	Brightness PropertyID = iota
	Contrast
)

// NeutralValue is the slider position at which an adjustment is the identity
const NeutralValue = 50

// String returns the lowercase key used on the command line and in the API
func (id PropertyID) String() string {
	switch id {
	case Brightness:
		return "brightness"
	case Contrast:
		return "contrast"
	default:
		return fmt.Sprintf("property(%d)", int(id))
	}
}

// ParsePropertyID resolves a property key ("brightness", "contrast") to its ID
func ParsePropertyID(key string) (PropertyID, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "brightness", "b":
		return Brightness, nil
	case "contrast", "c":
		return Contrast, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownProperty, key)
	}
}

// Property is a named, range-bounded integer control
type Property struct {
	ID      PropertyID `json:"-"`
	Key     string     `json:"key"`
	Name    string     `json:"name"`
	Min     int        `json:"min"`
	Max     int        `json:"max"`
	Default int        `json:"default"`
	Value   int        `json:"value"`
}

// NewProperty creates a property with its value set to the clamped default
func NewProperty(id PropertyID, name string, min, max, initial int) Property {
	if min > max {
		min, max = max, min
	}
	p := Property{
		ID:   id,
		Key:  id.String(),
		Name: name,
		Min:  min,
		Max:  max,
	}
	p.Default = p.clamp(initial)
	p.Value = p.Default
	return p
}

// SetValue stores value clamped into [Min, Max]
func (p *Property) SetValue(value int) {
	p.Value = p.clamp(value)
}

// Percent returns the value position within the range as 0..1
func (p Property) Percent() float64 {
	if p.Max == p.Min {
		return 0
	}
	return float64(p.Value-p.Min) / float64(p.Max-p.Min)
}

func (p Property) clamp(v int) int {
	if v < p.Min {
		return p.Min
	}
	if v > p.Max {
		return p.Max
	}
	return v
}

// PropertyReader is the read side of a property store
type PropertyReader interface {
	Lookup(id PropertyID) (int, bool)
}

// PropertySet holds the current value of each adjustable parameter for one image.
// Properties keep insertion order.
type PropertySet struct {
	props []Property
}

// NewPropertySet creates a set from the given properties
func NewPropertySet(props ...Property) *PropertySet {
	s := &PropertySet{props: make([]Property, 0, len(props))}
	for _, p := range props {
		if s.find(p.ID) != nil {
			continue
		}
		s.props = append(s.props, p)
	}
	return s
}

// DefaultProperties returns the brightness and contrast controls, both 0..100 with 50 neutral
func DefaultProperties() *PropertySet {
	return NewPropertySet(
		NewProperty(Brightness, "Brightness", 0, 100, NeutralValue),
		NewProperty(Contrast, "Contrast", 0, 100, NeutralValue),
	)
}

func (s *PropertySet) find(id PropertyID) *Property {
	for i := range s.props {
		if s.props[i].ID == id {
			return &s.props[i]
		}
	}
	return nil
}

// Lookup returns the stored value and whether the property is registered
func (s *PropertySet) Lookup(id PropertyID) (int, bool) {
	if s == nil {
		return 0, false
	}
	p := s.find(id)
	if p == nil {
		return 0, false
	}
	return p.Value, true
}

// Value returns the current value, or NeutralValue if the property is absent
func (s *PropertySet) Value(id PropertyID) int {
	if v, ok := s.Lookup(id); ok {
		return v
	}
	return NeutralValue
}

// Set clamps and stores value. It reports false, changing nothing, if id is not registered.
func (s *PropertySet) Set(id PropertyID, value int) bool {
	if s == nil {
		return false
	}
	p := s.find(id)
	if p == nil {
		return false
	}
	p.SetValue(value)
	return true
}

// Get returns a copy of the property with the given id
func (s *PropertySet) Get(id PropertyID) (Property, bool) {
	if s == nil {
		return Property{}, false
	}
	p := s.find(id)
	if p == nil {
		return Property{}, false
	}
	return *p, true
}

// Reset restores every property to its default
func (s *PropertySet) Reset() {
	for i := range s.props {
		s.props[i].Value = s.props[i].Default
	}
}

// IsNeutral reports whether every property sits at its default
func (s *PropertySet) IsNeutral() bool {
	for _, p := range s.props {
		if p.Value != p.Default {
			return false
		}
	}
	return true
}

// All returns a copy of the properties in insertion order
func (s *PropertySet) All() []Property {
	if s == nil {
		return nil
	}
	out := make([]Property, len(s.props))
	copy(out, s.props)
	return out
}

// Clone returns an independent copy of the set
func (s *PropertySet) Clone() *PropertySet {
	return NewPropertySet(s.All()...)
}
