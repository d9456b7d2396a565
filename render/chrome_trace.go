// Package render turns a finished sim.Trace into two on-disk formats: a
// Chrome Trace Event JSON timeline and a per-job CSV summary.
package render

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/inference-sim/infersim/sim"
)

const (
	pidWaiting    = 0
	pidInference  = 1
	pidWorkerBase = 100
)

// writeLine marshals v and writes it as one traceEvents array element,
// prefixing a comma for every element after the first so the array stays
// valid JSON (no trailing comma before the closing bracket).
func writeLine(w io.Writer, v any, first *bool) error {
	enc, err := json.Marshal(v)
	if err != nil {
		return err
	}
	prefix := ",\n"
	if *first {
		prefix = ""
		*first = false
	}
	_, err = fmt.Fprintf(w, "%s%s", prefix, enc)
	return err
}

// ChromeTrace writes trace as a Chrome Trace Event Format JSON document to
// w: a "B"/"E" queuing span per job on pid 0, an "X" execution span per
// job on pid 1, a "B"/"E" batch span per worker on pid 100+worker_id, a "C"
// counter series for cumulative past-due jobs, and a trailing "config"
// key echoing cfg. Each worker gets its own pid, 100+worker_id, so
// timelines across workers are visually distinguishable.
func ChromeTrace(trace *sim.Trace, cfg sim.Config, w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("{\"traceEvents\":[\n"); err != nil {
		return err
	}

	first := true
	pastDue := 0
	batchStart := make(map[int64]float64)
	if err := writeLine(bw, map[string]any{
		"name": "Past Due Jobs", "ph": "C", "cat": "past_due", "ts": 0, "pid": pidWaiting,
		"args": map[string]any{"past_due": pastDue},
	}, &first); err != nil {
		return err
	}

	for _, rec := range trace.Events() {
		switch rec.Kind {
		case sim.RecordAdmitted:
			if err := writeLine(bw, map[string]any{
				"name": fmt.Sprintf("Job %d", rec.JobID), "ph": "B", "cat": "queuing", "ts": float64(rec.At),
				"id": rec.JobID, "tid": rec.JobID, "pid": pidWaiting,
				"args": map[string]any{"job_id": rec.JobID},
			}, &first); err != nil {
				return err
			}

		case sim.RecordBatchStart:
			batchStart[rec.BatchID] = float64(rec.At)
			if err := writeLine(bw, map[string]any{
				"name": "Batch", "ph": "B", "cat": "exec.batch", "ts": float64(rec.At),
				"tid": 0, "pid": pidWorkerBase + rec.Worker,
				"args": map[string]any{"batch_size": len(rec.JobIDs), "batch_id": rec.BatchID},
			}, &first); err != nil {
				return err
			}
			for idx, id := range rec.JobIDs {
				if err := writeLine(bw, map[string]any{
					"name": fmt.Sprintf("Job %d", id), "ph": "s", "cat": "scheduling", "ts": float64(rec.At),
					"id": id, "tid": id, "pid": pidWaiting,
					"args": map[string]any{"job_id": id},
				}, &first); err != nil {
					return err
				}
				if err := writeLine(bw, map[string]any{
					"name": fmt.Sprintf("Job %d", id), "ph": "E", "cat": "queuing", "ts": float64(rec.At),
					"id": id, "tid": id, "pid": pidWaiting,
					"args": map[string]any{"job_id": id},
				}, &first); err != nil {
					return err
				}
				if err := writeLine(bw, map[string]any{
					"name": fmt.Sprintf("Job %d", id), "ph": "f", "bp": "e", "cat": "scheduling", "ts": float64(rec.At) + 0.01,
					"id": id, "tid": idx + 1, "pid": pidInference,
					"args": map[string]any{"job_id": id},
				}, &first); err != nil {
					return err
				}
			}

		case sim.RecordBatchDone:
			if err := writeLine(bw, map[string]any{
				"name": "Batch", "ph": "E", "cat": "exec.batch", "ts": float64(rec.At),
				"tid": 0, "pid": pidWorkerBase + rec.Worker,
				"args": map[string]any{"batch_id": rec.BatchID},
			}, &first); err != nil {
				return err
			}
			for idx, id := range rec.JobIDs {
				if err := writeLine(bw, map[string]any{
					"name": fmt.Sprintf("Job %d", id), "ph": "X", "cat": "exec", "ts": batchStart[rec.BatchID],
					"dur": float64(rec.At) - batchStart[rec.BatchID], "id": id, "tid": idx + 1, "pid": pidInference,
					"args": map[string]any{"job_id": id},
				}, &first); err != nil {
					return err
				}
			}

		case sim.RecordPastDue:
			if rec.OnCompletion {
				if err := writeLine(bw, map[string]any{
					"name": fmt.Sprintf("Job %d", rec.JobID), "ph": "X", "cat": "exec.past_due", "ts": float64(rec.At),
					"id": rec.JobID, "tid": 0, "pid": pidWorkerBase + rec.Worker,
					"args": map[string]any{"job_id": rec.JobID, "batch_id": rec.BatchID},
				}, &first); err != nil {
					return err
				}
			} else {
				if err := writeLine(bw, map[string]any{
					"name": fmt.Sprintf("Job %d", rec.JobID), "ph": "E", "cat": "queuing", "ts": float64(rec.At),
					"id": rec.JobID, "tid": rec.JobID, "pid": pidWaiting,
					"args": map[string]any{"job_id": rec.JobID},
				}, &first); err != nil {
					return err
				}
			}
			pastDue++
			if err := writeLine(bw, map[string]any{
				"name": "Past Due Jobs", "ph": "C", "cat": "past_due", "ts": float64(rec.At), "pid": pidWaiting,
				"args": map[string]any{"past_due": pastDue},
			}, &first); err != nil {
				return err
			}

		case sim.RecordIncomingJobsPolled, sim.RecordWakeUp:
			// no trace-visible span; these only drive dispatch decisions.
		}
	}

	if err := writeLine(bw, map[string]any{
		"name": "process_name", "ph": "M", "pid": pidWaiting,
		"args": map[string]any{"name": "Pending Jobs"},
	}, &first); err != nil {
		return err
	}
	if err := writeLine(bw, map[string]any{
		"name": "process_sort_index", "ph": "M", "pid": pidWaiting,
		"args": map[string]any{"sort_index": 0},
	}, &first); err != nil {
		return err
	}
	if err := writeLine(bw, map[string]any{
		"name": "process_name", "ph": "M", "pid": pidInference,
		"args": map[string]any{"name": "Inference"},
	}, &first); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(bw, "\n],\"config\":"); err != nil {
		return err
	}
	cfgBytes, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	if _, err := bw.Write(cfgBytes); err != nil {
		return err
	}
	if _, err := bw.WriteString("\n}"); err != nil {
		return err
	}
	return bw.Flush()
}
