package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/inference-sim/infersim/sim"
)

// jobRow accumulates one job's outcome across the records that mention it,
// in the order its RecordAdmitted entry was first seen.
type jobRow struct {
	id                int64
	length, lengthP99 float64
	admitted          float64
	deadline          string
	started, finished string
	state             string
}

// JobsCSV writes jobs.csv: one row per job outcome, columns
// job_id,length,length_p99,admitted,deadline,started,finished,state with
// state in {done, past_due}. Built by walking the canonical processed_events
// trace rather than any separate per-job ledger, per the trace's role as the
// single source of truth (sim/trace.go). Rows are written with the
// standard library's encoding/csv.
func JobsCSV(trace *sim.Trace, w io.Writer) error {
	rows := make(map[int64]*jobRow)
	var order []int64

	for _, rec := range trace.Events() {
		switch rec.Kind {
		case sim.RecordAdmitted:
			row := &jobRow{id: rec.JobID, length: float64(rec.Length), lengthP99: float64(rec.LengthP99), admitted: float64(rec.At)}
			if rec.Deadline != nil {
				row.deadline = fmt.Sprintf("%v", float64(*rec.Deadline))
			}
			rows[rec.JobID] = row
			order = append(order, rec.JobID)

		case sim.RecordBatchStart:
			for _, id := range rec.JobIDs {
				if row, ok := rows[id]; ok {
					row.started = fmt.Sprintf("%v", float64(rec.At))
				}
			}

		case sim.RecordBatchDone:
			for _, id := range rec.JobIDs {
				if row, ok := rows[id]; ok {
					row.finished = fmt.Sprintf("%v", float64(rec.At))
					row.state = "done"
				}
			}

		case sim.RecordPastDue:
			if row, ok := rows[rec.JobID]; ok {
				row.state = "past_due"
				if rec.OnCompletion {
					row.finished = fmt.Sprintf("%v", float64(rec.At))
				}
			}
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"job_id", "length", "length_p99", "admitted", "deadline", "started", "finished", "state"}); err != nil {
		return err
	}
	for _, id := range order {
		row := rows[id]
		record := []string{
			fmt.Sprintf("%d", row.id),
			fmt.Sprintf("%v", row.length),
			fmt.Sprintf("%v", row.lengthP99),
			fmt.Sprintf("%v", row.admitted),
			row.deadline,
			row.started,
			row.finished,
			row.state,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
