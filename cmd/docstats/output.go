package main

import (
	"encoding/json"
	"fmt"
	"io"

	"docstats/internal/stats"
)

// writeTasks prints each aggregation under a ">>> TASK_n" banner as
// indented JSON. Map keys come out sorted.
func writeTasks(w io.Writer, r stats.Report) error {
	sections := []struct {
		name  string
		value any
	}{
		{"TASK_1", r.Monthly},
		{"TASK_2", r.Periods},
		{"TASK_3", r.Average},
	}
	for _, s := range sections {
		b, err := json.MarshalIndent(s.value, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal %s: %w", s.name, err)
		}
		if _, err := fmt.Fprintf(w, "\n>>> %s\n%s\n", s.name, b); err != nil {
			return err
		}
	}
	return nil
}
