// Copyright © 2026 The tempchart Authors

package chart

type Color struct {
	Border string
	Fill   string
}

var Palette = [...]Color{
	{Border: "rgb(102, 126, 234)", Fill: "rgba(102, 126, 234, 0.1)"},
	{Border: "rgb(255, 99, 132)", Fill: "rgba(255, 99, 132, 0.1)"},
	{Border: "rgb(75, 192, 192)", Fill: "rgba(75, 192, 192, 0.1)"},
	{Border: "rgb(255, 206, 86)", Fill: "rgba(255, 206, 86, 0.1)"},
	{Border: "rgb(153, 102, 255)", Fill: "rgba(153, 102, 255, 0.1)"},
}

// ColorAt cycles the palette by selection order.
func ColorAt(i int) Color {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}
