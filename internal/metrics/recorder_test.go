package metrics

import (
	"testing"
	"time"
)

type testRecorder struct {
	taskDurations map[string]int
	taskResults   map[string]map[ResultLabel]int
	runDurations  int
	manifestFiles int
	filesWritten  map[string]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		taskDurations: map[string]int{},
		taskResults:   map[string]map[ResultLabel]int{},
		filesWritten:  map[string]int{},
	}
}

func (t *testRecorder) ObserveTaskDuration(task string, _ time.Duration) { t.taskDurations[task]++ }
func (t *testRecorder) IncTaskResult(task string, result ResultLabel) {
	m, ok := t.taskResults[task]
	if !ok {
		m = map[ResultLabel]int{}
		t.taskResults[task] = m
	}
	m[result]++
}
func (t *testRecorder) ObserveRunDuration(time.Duration) { t.runDurations++ }
func (t *testRecorder) SetManifestFiles(n int)           { t.manifestFiles = n }
func (t *testRecorder) IncFilesWritten(kind string)      { t.filesWritten[kind]++ }

func TestRecorderImplementations(t *testing.T) {
	var _ Recorder = NoopRecorder{}
	var _ Recorder = (*PrometheusRecorder)(nil)
	var _ Recorder = newTestRecorder()

	r := newTestRecorder()
	r.IncTaskResult("index", ResultSuccess)
	r.IncTaskResult("index", ResultSuccess)
	if got := r.taskResults["index"][ResultSuccess]; got != 2 {
		t.Fatalf("expected 2 successes, got %d", got)
	}
}
