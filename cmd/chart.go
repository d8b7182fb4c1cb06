// Copyright © 2026 The tempchart Authors

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/grifmax/tempchart/chart"
)

// chartCmd represents the chart command
var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Print a chart once",
	Long: `Fetches the history for one period, aggregates it and prints the
Chart.js configuration of the resulting chart as JSON.`,
	RunE: runChart,
}

func chartInit() {
	if !chartCmd.Flags().HasFlags() {
		chartCmd.Flags().String("sensors", "", "Comma separated sensor keys to draw (default all enabled)")
		chartCmd.Flags().Float64("zoom-min", 0, "Pin the lower bound of the temperature axis")
		chartCmd.Flags().Float64("zoom-max", 0, "Pin the upper bound of the temperature axis")
		chartCmd.Flags().Int("pan", 0, "Number of leading buckets to hide")
		chartCmd.Flags().Bool("raw", false, "Print the rendered series instead of the Chart.js config")
	}
}

func init() {
	RootCmd.AddCommand(chartCmd)
	chartInit()
}

func runChart(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	list, _ := flags.GetString("sensors")
	pan, _ := flags.GetInt("pan")
	raw, _ := flags.GetBool("raw")

	src, err := openSources(viper.GetString("source"))
	if err != nil {
		return err
	}
	defer src.Close()

	mem := chart.NewMemoryBackend()
	d, err := newDashboard(src, chart.NewSurface(mem), parseSensors(list))
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := d.Init(ctx); err != nil {
		return err
	}

	var min, max *float64
	if flags.Changed("zoom-min") {
		v, _ := flags.GetFloat64("zoom-min")
		min = &v
	}
	if flags.Changed("zoom-max") {
		v, _ := flags.GetFloat64("zoom-max")
		max = &v
	}
	if min != nil || max != nil {
		if err := d.Zoom(min, max); err != nil {
			return err
		}
	}
	if pan > 0 {
		if err := d.Pan(pan); err != nil {
			return err
		}
	}

	c, ok := d.Chart()
	if !ok {
		return fmt.Errorf("no %s history to chart", d.Period())
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if raw {
		return enc.Encode(c)
	}
	return enc.Encode(c.Config())
}

