package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"
)

var (
	httpClient = &http.Client{
		Timeout: 5 * time.Second,
	}

	remoteMu  sync.RWMutex
	remoteURI string
	remoteJob = "product-transactions"
)

func setRemote(uri, job string) {
	remoteMu.Lock()
	defer remoteMu.Unlock()
	remoteURI = uri
	if job != "" {
		remoteJob = job
	}
}

func remoteTarget() (string, string) {
	remoteMu.RLock()
	defer remoteMu.RUnlock()
	return remoteURI, remoteJob
}

// sendLog ships the entry in the background. Records below the configured level are dropped.
func sendLog(ctx context.Context, lvl slog.Level, message string, attrs []slog.Attr) {
	uri, job := remoteTarget()
	if uri == "" || !Instance().Enabled(ctx, lvl) {
		return
	}

	at := time.Now()
	go func() {
		logEntry := buildLogEntry(job, levelName(lvl), message, at, attrs)

		jsonData, err := json.Marshal(logEntry)
		if err != nil {
			// stderr only, never break the request flow
			fmt.Fprintf(os.Stderr, "Failed to marshal for remote log entry: %v\n", err)
			return
		}

		req, err := http.NewRequest(http.MethodPost, uri, bytes.NewBuffer(jsonData))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create request for remote log: %v\n", err)
			return
		}

		req.Header.Set("Content-Type", "application/json")

		resp, err := httpClient.Do(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to send to remote log: %v\n", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			fmt.Fprintf(os.Stderr, "Remote log returned error status: %d\n", resp.StatusCode)
		}
	}()
}
