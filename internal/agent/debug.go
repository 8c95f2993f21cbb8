package agent

import (
	"encoding/json"
	"net/http"
	"runtime"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voxlink/audio-uplink/internal/secure"
	"github.com/voxlink/audio-uplink/internal/stats"
)

type statsResponse struct {
	Stats      stats.Snapshot        `json:"stats"`
	Connection secure.ConnectionInfo `json:"connection"`
	HeapInuse  uint64                `json:"heap_inuse_bytes"`
	HeapSys    uint64                `json:"heap_sys_bytes"`
}

// DebugHandler serves the local diagnostics surface: Prometheus metrics and
// a JSON statistics snapshot. Not part of the collector wire protocol.
func (a *Agent) DebugHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/internal/stats", a.handleStats)
	return mux
}

func (a *Agent) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	resp := statsResponse{
		Stats:      a.pipe.Stats(),
		Connection: a.configurator.Info(a.transport),
		HeapInuse:  ms.HeapInuse,
		HeapSys:    ms.HeapSys,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
