package grid

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Widget is the persisted description of one widget: its geometry, size
// constraints and behavior flags. Widgets are what [Engine.Save] returns and
// what [Engine.Load] and [Engine.AddNode] accept.
//
// Zero values mean "unset": W or H of 0 default to 1, and a zero MinW/MaxW/
// MinH/MaxH applies no constraint.
type Widget struct {
	ID string `json:"id,omitempty"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
	W  int    `json:"w"`
	H  int    `json:"h"`

	MinW int `json:"minW,omitempty"`
	MaxW int `json:"maxW,omitempty"`
	MinH int `json:"minH,omitempty"`
	MaxH int `json:"maxH,omitempty"`

	// Locked widgets are never pushed or packed by the engine.
	Locked bool `json:"locked,omitempty"`
	// NoMove and NoResize are honored by interactive gestures only.
	NoMove   bool `json:"noMove,omitempty"`
	NoResize bool `json:"noResize,omitempty"`
	// AutoPosition asks the engine to pick the first free slot instead of X/Y.
	AutoPosition bool `json:"autoPosition,omitempty"`

	// Content is opaque to the engine and round-trips through Save/Load.
	Content string `json:"content,omitempty"`
	// Ref is an opaque collaborator handle. It is never serialized.
	Ref any `json:"-"`
}

// Rect returns the widget's geometry.
func (w Widget) Rect() Rect { return Rect{X: w.X, Y: w.Y, W: w.W, H: w.H} }

func (w *Widget) setRect(r Rect) {
	w.X, w.Y, w.W, w.H = r.X, r.Y, r.W, r.H
}

// widgetJSON mirrors Widget with numeric fields left raw so that loosely
// typed input (numeric strings, nulls, garbage) can be coerced.
type widgetJSON struct {
	ID           json.RawMessage `json:"id"`
	X            json.RawMessage `json:"x"`
	Y            json.RawMessage `json:"y"`
	W            json.RawMessage `json:"w"`
	H            json.RawMessage `json:"h"`
	MinW         json.RawMessage `json:"minW"`
	MaxW         json.RawMessage `json:"maxW"`
	MinH         json.RawMessage `json:"minH"`
	MaxH         json.RawMessage `json:"maxH"`
	Locked       bool            `json:"locked"`
	NoMove       bool            `json:"noMove"`
	NoResize     bool            `json:"noResize"`
	AutoPosition bool            `json:"autoPosition"`
	Content      string          `json:"content"`
}

// UnmarshalJSON decodes a widget, coercing numeric strings such as "2" to
// numbers. A missing X or Y, or one that cannot be read as a number, turns on
// AutoPosition so the engine places the widget itself. Unreadable sizes and
// constraints fall back to their unset defaults.
func (w *Widget) UnmarshalJSON(data []byte) error {
	var raw widgetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*w = Widget{
		ID:           parseID(raw.ID),
		Locked:       raw.Locked,
		NoMove:       raw.NoMove,
		NoResize:     raw.NoResize,
		AutoPosition: raw.AutoPosition,
		Content:      raw.Content,
	}

	x, xok := parseCell(raw.X)
	y, yok := parseCell(raw.Y)
	if !xok || !yok {
		w.AutoPosition = true
	}
	w.X, w.Y = x, y
	w.W, _ = parseCell(raw.W)
	w.H, _ = parseCell(raw.H)
	w.MinW, _ = parseCell(raw.MinW)
	w.MaxW, _ = parseCell(raw.MaxW)
	w.MinH, _ = parseCell(raw.MinH)
	w.MaxH, _ = parseCell(raw.MaxH)
	return nil
}

// parseCell reads a grid coordinate from a JSON number or numeric string.
// It returns ok=false for missing, null or non-numeric values.
func parseCell(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}
	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		text = strings.TrimSpace(s)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(math.Floor(f)), true
}

func parseID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		return ""
	}
	// numeric ids are kept in their literal form
	return string(raw)
}
