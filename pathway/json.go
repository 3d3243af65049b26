package pathway

import (
	"encoding/json"
	"fmt"
)

// jsonNet is the native JSON representation of a network:
//
//	{
//	  "places": {"p1": {"label": "Glucose", "tokens": 5}},
//	  "transitions": {"t1": {"label": "Hexokinase"}},
//	  "arcs": [{"source": "p1", "target": "t1", "weight": 1}]
//	}
type jsonNet struct {
	Places      map[string]jsonPlace      `json:"places"`
	Transitions map[string]jsonTransition `json:"transitions"`
	Arcs        []jsonArc                 `json:"arcs"`
}

type jsonPlace struct {
	Label  string `json:"label,omitempty"`
	Tokens int    `json:"tokens"`
}

type jsonTransition struct {
	Label string `json:"label,omitempty"`
}

type jsonArc struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// FromJSON parses a network from JSON bytes.
func FromJSON(data []byte) (*Net, error) {
	var raw jsonNet
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("pathway: invalid JSON: %w", err)
	}

	net := NewNet()
	for id, p := range raw.Places {
		label := p.Label
		if label == "" {
			label = id
		}
		net.AddPlace(id, label, p.Tokens)
	}
	for id, t := range raw.Transitions {
		label := t.Label
		if label == "" {
			label = id
		}
		net.AddTransition(id, label)
	}
	for _, a := range raw.Arcs {
		net.AddArc(a.Source, a.Target, a.Weight)
	}

	if err := net.Validate(); err != nil {
		return nil, err
	}
	return net, nil
}

// ToJSON serializes a network to indented JSON bytes.
func ToJSON(net *Net) ([]byte, error) {
	raw := jsonNet{
		Places:      make(map[string]jsonPlace, len(net.Places)),
		Transitions: make(map[string]jsonTransition, len(net.Transitions)),
		Arcs:        make([]jsonArc, 0, len(net.Arcs)),
	}
	for id, p := range net.Places {
		raw.Places[id] = jsonPlace{Label: p.Name, Tokens: p.Tokens}
	}
	for id, t := range net.Transitions {
		raw.Transitions[id] = jsonTransition{Label: t.Name}
	}
	for _, a := range net.Arcs {
		raw.Arcs = append(raw.Arcs, jsonArc{Source: a.Source, Target: a.Target, Weight: a.Weight})
	}
	return json.MarshalIndent(raw, "", "  ")
}
