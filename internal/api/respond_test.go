package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		value      any
		wantStatus int
		wantBody   string
		wantLog    bool
	}{
		{
			name:       "encodable value keeps status",
			status:     http.StatusCreated,
			value:      map[string]int{"answered": 2},
			wantStatus: http.StatusCreated,
			wantBody:   `{"answered":2}` + "\n",
		},
		{
			name:       "infinite float becomes 500",
			status:     http.StatusOK,
			value:      map[string]float64{"readiness_score": math.Inf(1)},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"internal server error"}` + "\n",
			wantLog:    true,
		},
		{
			name:       "unsupported type becomes 500",
			status:     http.StatusOK,
			value:      make(chan int),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"internal server error"}` + "\n",
			wantLog:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			prev := slog.Default()
			slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
			t.Cleanup(func() { slog.SetDefault(prev) })

			rec := httptest.NewRecorder()
			respondJSON(rec, tt.status, tt.value)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
			if !json.Valid(rec.Body.Bytes()) {
				t.Errorf("body %q is not valid JSON", rec.Body.String())
			}
			if got := strings.Contains(logs.String(), "encoding response failed"); got != tt.wantLog {
				t.Errorf("logged encode failure = %v, want %v (logs: %s)", got, tt.wantLog, logs.String())
			}
		})
	}
}
