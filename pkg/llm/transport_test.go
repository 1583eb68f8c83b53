package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode int
		wantText string
	}{
		{"ok", http.StatusOK, `{"text":"hi"}`, 0, "hi"},
		{"rate limited", http.StatusTooManyRequests, "slow down\n", http.StatusTooManyRequests, ""},
		{"huge error body", http.StatusInternalServerError, strings.Repeat("x", 3*maxErrorBody), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Equal(t, "v", r.Header.Get("X-Test"))
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			var out struct {
				Text string `json:"text"`
			}
			err := PostJSON(context.Background(), srv.Client(), "test", srv.URL, http.Header{"X-Test": {"v"}}, map[string]string{"q": "1"}, &out)
			if tt.wantCode == 0 {
				require.NoError(t, err)
				assert.Equal(t, tt.wantText, out.Text)
				return
			}

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.wantCode, se.Code)
			assert.LessOrEqual(t, len(se.Body), maxErrorBody)
		})
	}
}
