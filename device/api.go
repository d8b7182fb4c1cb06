// Copyright © 2026 The tempchart Authors

package device

import (
	"strconv"

	"github.com/guregu/null"

	"github.com/grifmax/tempchart/aggregator"
	"github.com/grifmax/tempchart/sensors"
)

type HistoryResult struct {
	Data   *[]HistoryRecord `json:"data"`
	Count  int              `json:"count"`
	Period string           `json:"period"`
}

// HistoryRecord identifies its sensor in whichever way the firmware
// revision that stored it did.
type HistoryRecord struct {
	Timestamp     int64       `json:"timestamp"`
	SensorAddress null.String `json:"sensor_address"`
	SensorIndex   null.Int    `json:"sensor_index"`
	SensorID      null.Int    `json:"sensor_id"`
	Temperature   null.Float  `json:"temperature"`
}

// Key picks address, then index, then id. Records without any identity
// yield an empty key.
func (r HistoryRecord) Key() string {
	switch {
	case r.SensorAddress.Valid && r.SensorAddress.String != "":
		return r.SensorAddress.String
	case r.SensorIndex.Valid:
		return strconv.FormatInt(r.SensorIndex.Int64, 10)
	case r.SensorID.Valid:
		return strconv.FormatInt(r.SensorID.Int64, 10)
	}
	return ""
}

func (r HistoryRecord) Sample() aggregator.Sample {
	return aggregator.Sample{
		Timestamp:   r.Timestamp,
		SensorKey:   r.Key(),
		Temperature: r.Temperature,
	}
}

type SensorsResult struct {
	Sensors []sensors.Sensor `json:"sensors"`
}
