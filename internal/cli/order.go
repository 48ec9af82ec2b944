package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"tasknotes/internal/taskwarrior"
)

// runOrder renumbers pending task estimates so they form a dense 0..n-1
// sequence in the current sort order. With an id and a position it first
// moves that task to the requested position.
func runOrder(args []string, client *taskwarrior.Client) int {
	tasks, err := client.List([]string{"status:" + taskwarrior.StatusPending})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing tasks: %v\n", err)
		return 1
	}
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No pending tasks to order.")
		return 0
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return taskwarrior.CompareEstimates(tasks[i].Estimate, tasks[j].Estimate) < 0
	})

	switch len(args) {
	case 0:
	case 2:
		id, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid task id %q\n", args[0])
			return 1
		}
		pos, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid position %q\n", args[1])
			return 1
		}
		tasks, err = moveToPosition(tasks, id, pos)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	default:
		fmt.Fprintln(os.Stderr, "Usage: tasknotes order [<id> <position>]")
		return 1
	}

	for i, task := range tasks {
		if task.Estimate == strconv.Itoa(i) {
			continue
		}
		if err := client.SetEstimate(task.UUID, i); err != nil {
			fmt.Fprintf(os.Stderr, "Error renumbering task %d: %v\n", task.ID, err)
			return 1
		}
	}
	return 0
}

// moveToPosition removes the task with the given id and reinserts it at pos,
// clamping pos into the valid range.
func moveToPosition(tasks []taskwarrior.Task, id, pos int) ([]taskwarrior.Task, error) {
	from := -1
	for i, task := range tasks {
		if task.ID == id {
			from = i
			break
		}
	}
	if from == -1 {
		return nil, fmt.Errorf("no pending task with id %d", id)
	}

	if pos < 0 {
		pos = 0
	}
	if pos > len(tasks)-1 {
		pos = len(tasks) - 1
	}

	moved := tasks[from]
	out := append([]taskwarrior.Task{}, tasks[:from]...)
	out = append(out, tasks[from+1:]...)
	out = append(out[:pos], append([]taskwarrior.Task{moved}, out[pos:]...)...)
	return out, nil
}
