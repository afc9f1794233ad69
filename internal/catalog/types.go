// Package catalog talks to the local component search backend and holds the
// normalized result types every renderer works from.
package catalog

import (
	"bytes"
	"encoding/json"
)

// Result modes reported alongside every QueryResult.
const (
	ModeBrain           = "brain"
	ModeOpenRouter      = "openrouter"
	ModeNoKey           = "no_key"
	ModeOpenRouterError = "openrouter_error"
	ModeBrainError      = "brain_error"
	ModeInvalidInput    = "invalid_input"
)

// QueryResult is the normalized outcome of one dispatched question. Exactly
// one of Error, Response or Result is meaningful, chosen by Success and the
// backend that answered.
type QueryResult struct {
	Success  bool          `json:"success"`
	Mode     string        `json:"mode,omitempty"`
	Error    string        `json:"error,omitempty"`
	Response string        `json:"response,omitempty"`
	Result   *SearchResult `json:"result,omitempty"`
	Command  *Command      `json:"command,omitempty"`
	Intent   string        `json:"intent,omitempty"`
}

// Failure builds an unsuccessful result.
func Failure(mode, message string) QueryResult {
	return QueryResult{Success: false, Mode: mode, Error: message}
}

// IsChat reports whether the result carries a chat answer.
func (r QueryResult) IsChat() bool {
	return r.Success && r.Result == nil && r.Response != ""
}

// Command is the backend's description of how it interpreted a question.
type Command struct {
	Action      string `json:"action,omitempty"`
	Explanation string `json:"explanation,omitempty"`
}

// Params are the headline ratings of a component.
type Params struct {
	Imax   float64 `json:"Imax,omitempty"`
	UceMax float64 `json:"Uce_max,omitempty"`
	Ptot   float64 `json:"Ptot,omitempty"`
}

// Component is a single catalog entry.
type Component struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Type        string `json:"type,omitempty"`
	Origin      string `json:"origin,omitempty"`
	Description string `json:"description,omitempty"`
	Params      Params `json:"params"`
}

// Point is one (voltage, current) sample of a characteristic.
type Point struct {
	Voltage float64 `json:"voltage"`
	Current float64 `json:"current"`
}

// ResultKind says which shape a SearchResult took.
type ResultKind int

const (
	KindRaw ResultKind = iota
	KindList
	KindCurve
	KindDetail
)

func (k ResultKind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindCurve:
		return "curve"
	case KindDetail:
		return "detail"
	default:
		return "raw"
	}
}

// SearchResult is the polymorphic "result" field of a successful search.
// The kind is detected from the keys present, in the order components,
// characteristics, id; anything else is kept verbatim as Raw.
type SearchResult struct {
	Kind ResultKind

	// KindList
	Components []Component
	Count      int

	// KindCurve
	Characteristics []Point
	ComponentID     string

	// KindDetail
	Component *Component

	// Raw holds the original JSON for every kind.
	Raw json.RawMessage
}

// NewList builds a list result.
func NewList(components []Component, count int) *SearchResult {
	return &SearchResult{Kind: KindList, Components: components, Count: count}
}

// NewCurve builds a characteristic result.
func NewCurve(componentID string, points []Point) *SearchResult {
	return &SearchResult{Kind: KindCurve, ComponentID: componentID, Characteristics: points}
}

// Len is the number of items a result reports: the component count for
// lists, the point count for curves and one for a detail.
func (r *SearchResult) Len() int {
	if r == nil {
		return 0
	}
	switch r.Kind {
	case KindList:
		return r.Count
	case KindCurve:
		return len(r.Characteristics)
	case KindDetail:
		return 1
	default:
		return 0
	}
}

func (r *SearchResult) UnmarshalJSON(data []byte) error {
	*r = SearchResult{Kind: KindRaw, Raw: append(json.RawMessage(nil), data...)}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		// Not an object: keep it raw.
		return nil
	}

	switch {
	case present(fields, "components"):
		var list struct {
			Components []Component `json:"components"`
			Count      *int        `json:"count"`
		}
		if err := json.Unmarshal(data, &list); err != nil {
			return nil
		}
		r.Kind = KindList
		r.Components = list.Components
		r.Count = len(list.Components)
		if list.Count != nil {
			r.Count = *list.Count
		}
	case present(fields, "characteristics"):
		var curve struct {
			Characteristics []Point `json:"characteristics"`
			ComponentID     string  `json:"component_id"`
		}
		if err := json.Unmarshal(data, &curve); err != nil {
			return nil
		}
		r.Kind = KindCurve
		r.Characteristics = curve.Characteristics
		r.ComponentID = curve.ComponentID
	case present(fields, "id"):
		var c Component
		if err := json.Unmarshal(data, &c); err != nil || c.ID == "" {
			return nil
		}
		r.Kind = KindDetail
		r.Component = &c
	}
	return nil
}

func (r SearchResult) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindList:
		return json.Marshal(struct {
			Components []Component `json:"components"`
			Count      int         `json:"count"`
		}{r.Components, r.Count})
	case KindCurve:
		return json.Marshal(struct {
			Characteristics []Point `json:"characteristics"`
			ComponentID     string  `json:"component_id,omitempty"`
		}{r.Characteristics, r.ComponentID})
	case KindDetail:
		return json.Marshal(r.Component)
	}
	if len(r.Raw) == 0 {
		return []byte("null"), nil
	}
	return r.Raw, nil
}

func present(fields map[string]json.RawMessage, key string) bool {
	v, ok := fields[key]
	return ok && !bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
