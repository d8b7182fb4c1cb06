// Copyright © 2026 The tempchart Authors

package cmd

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"

	"github.com/grifmax/tempchart/aggregator"
	"github.com/grifmax/tempchart/chart"
	"github.com/grifmax/tempchart/dashboard"
	"github.com/grifmax/tempchart/exporter"
	"github.com/grifmax/tempchart/refresh"
	"github.com/grifmax/tempchart/relay"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:     "server",
	Aliases: []string{"web", "serve", "webserver"},
	Short:   "Web Server",
	Long: `Launches the web server. The chart is refreshed in the background and
served as Chart.js JSON; the view is driven through the /api endpoints.`,
	RunE: server,
}

func serverInit() {
	if !serverCmd.Flags().HasFlags() {
		serverCmd.Flags().String("webroot", "web", "Root directory for the web server.")
		serverCmd.Flags().String("address", ":0", "Address and port to listen on.")
		serverCmd.Flags().Bool("publish", false, "Also publish the chart to the MQTT broker.")
	}
}

func init() {
	RootCmd.AddCommand(serverCmd)
	serverInit()
	viper.BindPFlags(serverCmd.Flags())
}

func server(cmd *cobra.Command, args []string) error {
	src, err := openSources(viper.GetString("source"))
	if err != nil {
		return err
	}
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var publisher chart.Backend
	if viper.GetBool("publish") {
		r := relay.New(relay.NewClient(ctx, viper.GetString("broker"), "tempchart-server"), viper.GetString("topic"))
		defer r.Close()
		go func() {
			if err := relay.Connect(ctx, r.Client()); err != nil {
				jww.ERROR.Println(err)
			}
		}()
		publisher = r
	}

	d, err := newDashboard(src, chart.NewSurface(serverBackend(chart.NewMemoryBackend(), publisher)), nil)
	if err != nil {
		return err
	}

	if err := d.LoadSensors(ctx); err != nil {
		jww.ERROR.Println(err)
	}
	var scheduler refresh.Scheduler
	scheduler.Start(ctx, refreshInterval(), d.Refresh)
	defer scheduler.Stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(exporter.New(d))

	listener, err := net.Listen("tcp", viper.GetString("address"))
	if err != nil {
		return err
	}
	addr := listener.Addr()
	jww.INFO.Println("Listening on", addr.String())

	return http.Serve(listener, newServerMux(d, registry, viper.GetString("webroot")))
}

// serverBackend keeps the chart in memory for /chart.json and, when a
// publisher is given, draws it there as well. The publisher may be
// unavailable without blocking the HTTP side.
func serverBackend(mem *chart.MemoryBackend, publisher chart.Backend) chart.Backend {
	if publisher == nil {
		return mem
	}
	return chart.Multi{mem, publisher}
}

func newServerMux(d *dashboard.Dashboard, registry *prometheus.Registry, webroot string) *http.ServeMux {
	mux := http.NewServeMux()
	if webroot != "" {
		mux.Handle("/", http.FileServer(http.Dir(webroot)))
	}
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("/chart.json", func(w http.ResponseWriter, r *http.Request) {
		c, ok := d.Chart()
		if !ok {
			httpError(w, http.StatusServiceUnavailable, chart.UnavailableText)
			return
		}
		if r.FormValue("format") == "raw" {
			writeJSON(w, c)
			return
		}
		writeJSON(w, c.Config())
	})

	mux.HandleFunc("/buckets.json", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, d.Buckets())
	})

	mux.HandleFunc("/api/state", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, state(d))
	})

	mux.HandleFunc("/api/period", post(func(w http.ResponseWriter, r *http.Request) {
		p, err := aggregator.ParsePeriod(r.FormValue("period"))
		if err != nil {
			httpError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := d.SetPeriod(r.Context(), p); err != nil {
			jww.ERROR.Println(err)
		}
		writeJSON(w, state(d))
	}))

	mux.HandleFunc("/api/selection", post(func(w http.ResponseWriter, r *http.Request) {
		if err := d.SetSelection(parseSensors(r.FormValue("sensors"))); err != nil {
			jww.ERROR.Println(err)
		}
		writeJSON(w, state(d))
	}))

	mux.HandleFunc("/api/view/zoom", post(func(w http.ResponseWriter, r *http.Request) {
		min, err := optionalFloat(r.FormValue("min"))
		if err != nil {
			httpError(w, http.StatusBadRequest, err.Error())
			return
		}
		max, err := optionalFloat(r.FormValue("max"))
		if err != nil {
			httpError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := d.Zoom(min, max); err != nil {
			jww.ERROR.Println(err)
		}
		writeJSON(w, state(d))
	}))

	mux.HandleFunc("/api/view/pan", post(func(w http.ResponseWriter, r *http.Request) {
		offset, err := strconv.Atoi(r.FormValue("offset"))
		if err != nil {
			httpError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := d.Pan(offset); err != nil {
			jww.ERROR.Println(err)
		}
		writeJSON(w, state(d))
	}))

	mux.HandleFunc("/api/view/reset", post(func(w http.ResponseWriter, r *http.Request) {
		if err := d.ResetView(); err != nil {
			jww.ERROR.Println(err)
		}
		writeJSON(w, state(d))
	}))

	return mux
}

type dashboardState struct {
	Period    aggregator.Period `json:"period"`
	View      chart.ViewState   `json:"view"`
	Selection []string          `json:"selection"`
	Unit      string            `json:"unit"`
}

func state(d *dashboard.Dashboard) dashboardState {
	return dashboardState{
		Period:    d.Period(),
		View:      d.View(),
		Selection: d.Selection(),
		Unit:      d.Unit().Symbol(),
	}
}

func post(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			httpError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h(w, r)
	}
}

func optionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		jww.ERROR.Println(err)
	}
}

func httpError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
