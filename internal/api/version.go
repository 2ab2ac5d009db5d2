package api

import (
	"encoding/json"
	"net/http"
	"runtime"
)

// BuildInfo carries the values injected with -ldflags at build time.
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

func (b BuildInfo) withDefaults() BuildInfo {
	if b.Version == "" {
		b.Version = "dev"
	}
	if b.GitCommit == "" {
		b.GitCommit = "unknown"
	}
	if b.BuildDate == "" {
		b.BuildDate = "unknown"
	}
	b.GoVersion = runtime.Version()
	return b
}

// VersionHandler serves build metadata at GET /version.
func VersionHandler(info BuildInfo) http.Handler {
	info = info.withDefaults()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(info)
	})
}
