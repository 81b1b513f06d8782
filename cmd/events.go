package cmd

import (
	"fmt"
	"io"

	"epsdm/internal/processor"
	"epsdm/internal/tui"
)

// printEvents writes one line per archive boundary and error. File progress
// is printed at every tenth of the archive to keep logs short.
func printEvents(w io.Writer, events <-chan processor.Event) {
	step := 1
	for ev := range events {
		switch ev.Kind {
		case processor.EventArchiveStarted:
			step = max(ev.Total/10, 1)
			fmt.Fprintf(w, "[%d/%d] %s: %d EPS files\n", ev.ArchiveIndex+1, ev.ArchiveCount, ev.Archive, ev.Total)
		case processor.EventFileProgress:
			if ev.Completed > 0 && (ev.Completed%step == 0 || ev.Completed == ev.Total) {
				fmt.Fprintf(w, "  %d/%d\n", ev.Completed, ev.Total)
			}
		case processor.EventArchiveCompleted:
			fmt.Fprintln(w, tui.ArchiveLine(ev.Stats))
			for _, f := range ev.Stats.Failures {
				fmt.Fprintf(w, "  x %s\n", f.Message())
			}
		case processor.EventError:
			fmt.Fprintf(w, "error: %s\n", ev.Message)
		case processor.EventBatchCompleted:
			fmt.Fprintf(w, "done: %d/%d decoded\n", ev.Batch.Successful, ev.Batch.TotalFiles)
		}
	}
}
