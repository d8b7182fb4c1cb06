// Copyright © 2026 The tempchart Authors

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"

	"github.com/grifmax/tempchart/chart"
	"github.com/grifmax/tempchart/refresh"
	"github.com/grifmax/tempchart/relay"
)

// relayCmd represents the relay command
var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Publishes the chart to MQTT",
	Long: `Refreshes the chart periodically and publishes it, retained, to
<topic>/chart together with the newest bucket on <topic>/bucket.`,
	RunE: runRelay,
}

func init() {
	RootCmd.AddCommand(relayCmd)
}

func runRelay(cmd *cobra.Command, args []string) error {
	src, err := openSources(viper.GetString("source"))
	if err != nil {
		return err
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := relay.NewClient(ctx, viper.GetString("broker"), "tempchart")

	if err := relay.Connect(ctx, client); err != nil {
		return err
	}
	r := relay.New(client, viper.GetString("topic"))
	defer r.Close()
	jww.INFO.Println("Publishing to", r.Topic())

	d, err := newDashboard(src, chart.NewSurface(r), nil)
	if err != nil {
		return err
	}
	if err := d.LoadSensors(ctx); err != nil {
		jww.ERROR.Println(err)
	}

	var scheduler refresh.Scheduler
	scheduler.Start(ctx, refreshInterval(), d.Refresh)
	defer scheduler.Stop()

	<-ctx.Done()
	return nil
}
