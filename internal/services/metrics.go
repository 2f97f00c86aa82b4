package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agenda_sync_reloads_total",
		Help: "Editor cache reloads, by mode (initial, silent) and result",
	}, []string{"mode", "result"})

	optimisticWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agenda_sync_optimistic_writes_total",
		Help: "Background store writes behind optimistic slot mutations",
	}, []string{"action", "result"})

	openEditors = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "agenda_editors_open",
		Help: "Events with an editor cache held in memory",
	})

	viewerRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agenda_viewer_refreshes_total",
		Help: "Public agenda refreshes, by result",
	}, []string{"result"})

	activeViewers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "agenda_viewer_active",
		Help: "Public agenda readers currently polling",
	})
)

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
