package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counters(t *testing.T) {
	r := NewRecorder()

	r.RecordDocument("select", StatusSuccess, 20*time.Millisecond)
	r.RecordDocument("select", StatusSuccess, 30*time.Millisecond)
	r.RecordDocument("select", StatusFailed, time.Millisecond)
	r.AddPages("select", 7)
	r.AddPages("select", 0)
	r.AddRangeWarnings("select", 2)

	assert.InDelta(t, 2, testutil.ToFloat64(r.documents.WithLabelValues("select", StatusSuccess)), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(r.documents.WithLabelValues("select", StatusFailed)), 1e-9)
	assert.InDelta(t, 7, testutil.ToFloat64(r.pagesWritten.WithLabelValues("select")), 1e-9)
	assert.InDelta(t, 2, testutil.ToFloat64(r.rangeWarnings.WithLabelValues("select")), 1e-9)
	assert.Equal(t, 1, testutil.CollectAndCount(r.duration))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.RecordDocument("x", StatusSuccess, time.Second)
		r.AddPages("x", 1)
		r.AddRangeWarnings("x", 1)
		require.NoError(t, r.WriteTextfile("ignored.prom"))
	})
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.RecordDocument("number", StatusSuccess, time.Millisecond)
	r.AddPages("number", 3)

	path := filepath.Join(t.TempDir(), "textfile", "pagekit.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `pagekit_documents_total{status="success",tool="number"} 1`), text)
	assert.Contains(t, text, `pagekit_pages_written_total{tool="number"} 3`)
}
