// Copyright © 2026 The tempchart Authors

package chart

// Chart.js line chart configuration, as consumed by `new Chart(ctx, cfg)`.

type JSConfig struct {
	Type    string    `json:"type"`
	Data    JSData    `json:"data"`
	Options JSOptions `json:"options"`
}

type JSData struct {
	Labels   []string    `json:"labels"`
	Datasets []JSDataset `json:"datasets"`
}

type JSDataset struct {
	Label           string     `json:"label"`
	Data            []*float64 `json:"data"`
	BorderColor     string     `json:"borderColor"`
	BackgroundColor string     `json:"backgroundColor"`
	Tension         float64    `json:"tension"`
	Fill            bool       `json:"fill"`
	SpanGaps        bool       `json:"spanGaps"`
}

type JSOptions struct {
	Responsive          bool      `json:"responsive"`
	MaintainAspectRatio bool      `json:"maintainAspectRatio"`
	Plugins             JSPlugins `json:"plugins"`
	Scales              JSScales  `json:"scales"`
}

type JSPlugins struct {
	Legend JSLegend `json:"legend"`
}

type JSLegend struct {
	Display  bool   `json:"display"`
	Position string `json:"position"`
}

type JSScales struct {
	X JSScale `json:"x"`
	Y JSScale `json:"y"`
}

type JSScale struct {
	BeginAtZero bool     `json:"beginAtZero"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Title       JSTitle  `json:"title"`
}

type JSTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

func (c Chart) Config() JSConfig {
	cfg := JSConfig{
		Type: "line",
		Data: JSData{
			Labels:   c.Labels,
			Datasets: make([]JSDataset, len(c.Series)),
		},
		Options: JSOptions{
			Responsive:          true,
			MaintainAspectRatio: true,
			Plugins:             JSPlugins{Legend: JSLegend{Display: true, Position: "top"}},
			Scales: JSScales{
				X: JSScale{Title: JSTitle{Display: true, Text: "Time"}},
				Y: JSScale{
					Min:   c.Y.Min,
					Max:   c.Y.Max,
					Title: JSTitle{Display: true, Text: c.Y.Title},
				},
			},
		},
	}
	for i, s := range c.Series {
		cfg.Data.Datasets[i] = JSDataset{
			Label:           s.Label,
			Data:            s.Data,
			BorderColor:     s.Border,
			BackgroundColor: s.Fill,
			Tension:         0.4,
			Fill:            !s.Placeholder,
			SpanGaps:        s.SpanGaps,
		}
	}
	return cfg
}
