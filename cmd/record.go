// Copyright © 2026 The tempchart Authors

package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"

	"github.com/grifmax/tempchart/aggregator"
	"github.com/grifmax/tempchart/data"
	"github.com/grifmax/tempchart/device"
)

// recordCmd represents the record command
var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Stores device history in the database",
	Long: `Polls the hourly history of the sensor controller and stores every
new sample into the database, so that charts can be drawn from the database
after the controller has forgotten them.`,
	RunE: record,
}

func recordInit() {
	if !recordCmd.Flags().HasFlags() {
		recordCmd.Flags().Int("interval", 300, "Interval (in seconds) between polls.")
	}
}

func init() {
	RootCmd.AddCommand(recordCmd)
	recordInit()
	viper.BindPFlags(recordCmd.Flags())
}

func record(cmd *cobra.Command, args []string) error {
	db, err := data.OpenDatabase(viper.GetString("dbDriver"), viper.GetString("database"))
	if err != nil {
		return err
	}
	defer db.Close()

	client := newDeviceClient(viper.GetString("device"))

	interval := time.Duration(viper.GetInt("interval")) * time.Second
	if interval <= 0 {
		interval = 300 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		if err := poll(ctx, client, db); err != nil {
			jww.ERROR.Println(err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// poll stores what the controller has buffered for the last hour.
func poll(ctx context.Context, history *device.Client, db *data.Database) error {
	samples, err := history.History(ctx, aggregator.Period1h)
	if errors.Is(err, device.ErrNoHistory) {
		jww.INFO.Println("no history yet")
		return nil
	}
	if err != nil {
		return err
	}
	n, err := db.InsertSamples(samples)
	if err != nil {
		return err
	}
	jww.INFO.Printf("stored %d new samples", n)
	return nil
}
