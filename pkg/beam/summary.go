package beam

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/chazu/precast/pkg/geom"
	"github.com/chazu/precast/pkg/handle"
	"github.com/chazu/precast/pkg/params"
	"github.com/chazu/precast/pkg/reinforce"
)

// Format names a summary encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat accepts "json", "yaml"/"yml" and "msgpack"/"mp".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("unknown format %q (want json, yaml or msgpack)", s)
}

// Bounds is an axis-aligned box.
type Bounds struct {
	Min [3]float64 `json:"min" yaml:"min" msgpack:"min"`
	Max [3]float64 `json:"max" yaml:"max" msgpack:"max"`
}

// ElementSummary describes one element without its kernel solid.
type ElementSummary struct {
	ID        uuid.UUID                  `json:"id" yaml:"id" msgpack:"id"`
	Name      string                     `json:"name" yaml:"name" msgpack:"name"`
	Kind      string                     `json:"kind" yaml:"kind" msgpack:"kind"`
	Bounds    *Bounds                    `json:"bounds,omitempty" yaml:"bounds,omitempty" msgpack:"bounds,omitempty"`
	Props     *CommonProperties          `json:"properties,omitempty" yaml:"properties,omitempty" msgpack:"properties,omitempty"`
	Placement *reinforce.LinearPlacement `json:"placement,omitempty" yaml:"placement,omitempty" msgpack:"placement,omitempty"`
}

// Summary is the serialisable view of a Result.
type Summary struct {
	Params        params.Beam         `json:"params" yaml:"params" msgpack:"params"`
	ConcreteGrade string              `json:"concrete_grade" yaml:"concrete_grade" msgpack:"concrete_grade"`
	SteelGrade    string              `json:"steel_grade" yaml:"steel_grade" msgpack:"steel_grade"`
	Intersection  geom.Vec            `json:"intersection" yaml:"intersection" msgpack:"intersection"`
	Elements      []ElementSummary    `json:"elements" yaml:"elements" msgpack:"elements"`
	Handles       []handle.Descriptor `json:"handles" yaml:"handles" msgpack:"handles"`
	Warnings      []string            `json:"warnings,omitempty" yaml:"warnings,omitempty" msgpack:"warnings,omitempty"`
}

// Summary returns the serialisable view of r.
func (r *Result) Summary() Summary {
	s := Summary{
		Params:        r.Params,
		ConcreteGrade: params.ConcreteGradeName(r.Params.ConcreteGrade),
		SteelGrade:    params.SteelGradeName(r.Params.SteelGrade),
		Intersection:  r.Intersection,
		Handles:       r.Handles,
		Warnings:      r.Warnings,
	}
	for _, e := range r.Elements {
		es := ElementSummary{ID: e.ElementID(), Name: e.ElementName()}
		switch e := e.(type) {
		case SolidElement:
			es.Kind = "solid"
			min, max := e.Solid.BoundingBox()
			es.Bounds = &Bounds{Min: min, Max: max}
			props := e.Props
			es.Props = &props
		case PlacementElement:
			es.Kind = "placement"
			p := e.Placement
			es.Placement = &p
		}
		s.Elements = append(s.Elements, es)
	}
	return s
}

// Encode writes s to w in format f.
func (s Summary) Encode(w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(s)
	}
	return fmt.Errorf("unknown format %q", f)
}
