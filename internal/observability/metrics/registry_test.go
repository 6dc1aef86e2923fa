package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/articles", "200"))

	RecordHTTPRequest(http.MethodGet, "/articles", http.StatusOK, 15*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/articles", "200")))
}

func TestRecordArticleOperation(t *testing.T) {
	before := testutil.ToFloat64(ArticleOperationsTotal.WithLabelValues("create"))

	RecordArticleOperation("create")
	RecordArticleOperation("create")

	assert.Equal(t, before+2, testutil.ToFloat64(ArticleOperationsTotal.WithLabelValues("create")))
}

func TestRecordAuthEvent(t *testing.T) {
	tests := []struct {
		name   string
		ok     bool
		result string
	}{
		{name: "success", ok: true, result: "success"},
		{name: "failure", ok: false, result: "failure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := AuthEventsTotal.WithLabelValues("login", tt.result)
			before := testutil.ToFloat64(c)
			RecordAuthEvent("login", tt.ok)
			assert.Equal(t, before+1, testutil.ToFloat64(c))
		})
	}
}

func TestRecordMailJobAndStoreError(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordMailJob("queued")
		RecordStoreError("elasticsearch")
	})
}
