package northlands

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

const (
	// Property types
	// see doc.mapeditor.org/en/stable/reference/tmx-map-format/#properties
	PropString = "string"
	PropInt    = "int"
	PropBool   = "bool"

	// PropSeed is the map property holding the seed a map was generated from
	PropSeed = "seed"
)

// Properties are typed key/values we attach to a map. A key holds exactly
// one type; setting it with another type replaces it.
type Properties struct {
	ints    map[string]int
	strings map[string]string
	bools   map[string]bool
}

// NewProperties returns an empty properties
func NewProperties() *Properties {
	return &Properties{
		ints:    map[string]int{},
		strings: map[string]string{},
		bools:   map[string]bool{},
	}
}

// Merge properties `o` into this properties
func (p *Properties) Merge(o *Properties) *Properties {
	if o == nil {
		return p
	}
	for k, v := range o.ints {
		p.SetInt(k, v)
	}
	for k, v := range o.strings {
		p.SetString(k, v)
	}
	for k, v := range o.bools {
		p.SetBool(k, v)
	}
	return p
}

// Len is the number of keys set
func (p *Properties) Len() int {
	return len(p.ints) + len(p.strings) + len(p.bools)
}

// Parse sets `key` from a string, guessing the type: "true"/"false" are
// bools, anything strconv can read as an int is an int, the rest are strings.
func (p *Properties) Parse(key, value string) {
	switch value {
	case "true":
		p.SetBool(key, true)
		return
	case "false":
		p.SetBool(key, false)
		return
	}

	i, err := strconv.ParseInt(value, 10, 64)
	if err == nil {
		p.SetInt(key, int(i))
	} else {
		p.SetString(key, value)
	}
}

// toList mutates our nicer properties wrapper into []*Property understood
// by the XML encoder, sorted by name.
func (p *Properties) toList() []*Property {
	ps := []*Property{}
	for k, v := range p.ints {
		ps = append(ps, &Property{
			Name:  k,
			Value: fmt.Sprintf("%d", v),
			Type:  PropInt,
		})
	}
	for k, v := range p.bools {
		ps = append(ps, &Property{
			Name:  k,
			Value: fmt.Sprintf("%v", v),
			Type:  PropBool,
		})
	}
	for k, v := range p.strings {
		ps = append(ps, &Property{
			Name:  k,
			Value: v,
			Type:  PropString,
		})
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].Name < ps[j].Name })
	return ps
}

// newPropertiesFromList turns the XML []Property into our nicer properties
// wrapper struct.
func newPropertiesFromList(in []*Property) *Properties {
	ps := NewProperties()

	for _, i := range in {
		switch i.Type {
		case PropInt:
			v, _ := strconv.ParseInt(i.Value, 10, 64)
			ps.SetInt(i.Name, int(v))
		case PropBool:
			ps.SetBool(i.Name, i.Value == "true")
		default:
			// we don't use float, file, color etc
			ps.SetString(i.Name, i.Value)
		}
	}

	return ps
}

// propertiesJSON is how properties are written to the store
type propertiesJSON struct {
	I map[string]int    `json:"i,omitempty"`
	S map[string]string `json:"s,omitempty"`
	B map[string]bool   `json:"b,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (p *Properties) MarshalJSON() ([]byte, error) {
	return json.Marshal(propertiesJSON{I: p.ints, S: p.strings, B: p.bools})
}

// UnmarshalJSON implements json.Unmarshaler
func (p *Properties) UnmarshalJSON(data []byte) error {
	in := propertiesJSON{}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*p = *NewProperties()
	for k, v := range in.I {
		p.ints[k] = v
	}
	for k, v := range in.S {
		p.strings[k] = v
	}
	for k, v := range in.B {
		p.bools[k] = v
	}
	return nil
}

func (p *Properties) String(key string) (string, bool) {
	v, ok := p.strings[key]
	return v, ok
}

func (p *Properties) SetString(key, value string) {
	p.strings[key] = value
	delete(p.ints, key)
	delete(p.bools, key)
}

func (p *Properties) Int(key string) (int, bool) {
	v, ok := p.ints[key]
	return v, ok
}

func (p *Properties) SetInt(key string, value int) {
	p.ints[key] = value
	delete(p.strings, key)
	delete(p.bools, key)
}

func (p *Properties) Bool(key string) (bool, bool) {
	v, ok := p.bools[key]
	return v, ok
}

func (p *Properties) SetBool(key string, value bool) {
	p.bools[key] = value
	delete(p.strings, key)
	delete(p.ints, key)
}
