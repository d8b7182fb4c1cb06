// Copyright © 2026 The tempchart Authors

package chart

// Zoom pins the Y axis. A nil bound means auto-scale on that side.
type Zoom struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

type ViewState struct {
	Zoom      Zoom `json:"zoom"`
	PanOffset int  `json:"pan_offset"`
}

func DefaultView() ViewState {
	return ViewState{}
}

// Reset restores the default view. Called on period changes and on an
// explicit reset.
func (v *ViewState) Reset() {
	*v = DefaultView()
}

func (v ViewState) IsDefault() bool {
	return v.Zoom.Min == nil && v.Zoom.Max == nil && v.PanOffset == 0
}

// SetZoom copies the bounds so callers can reuse their variables.
func (v *ViewState) SetZoom(min, max *float64) {
	v.Zoom = Zoom{Min: copyFloat(min), Max: copyFloat(max)}
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
