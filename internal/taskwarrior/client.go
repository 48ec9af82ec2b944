package taskwarrior

import (
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strconv"
)

// Client runs the `task` binary. The zero value is usable; Binary overrides
// the executable name for tests.
type Client struct {
	Binary string
}

func NewClient() *Client {
	return &Client{Binary: "task"}
}

func (c *Client) binary() string {
	if c.Binary != "" {
		return c.Binary
	}
	return "task"
}

// List exports the tasks matching the given filter terms. Filter terms are
// opaque taskwarrior predicates ("status:pending", "+tasknotes", ...) and are
// ANDed together by taskwarrior itself.
func (c *Client) List(filter []string) ([]Task, error) {
	args := []string{"rc.json.array=on", "rc.confirmation=off", "rc.hooks=0"}
	args = append(args, filter...)
	args = append(args, "export")

	output, err := exec.Command(c.binary(), args...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("task export failed: exit code %d, stderr: %s",
				exitErr.ExitCode(), exitErr.Stderr)
		}
		return nil, fmt.Errorf("task export failed: %w", err)
	}

	var tasks []Task
	if err := json.Unmarshal(output, &tasks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task export output: %w", err)
	}
	return tasks, nil
}

// ParseTasks decodes a stream of task JSON objects, as emitted by hooks.
func (c *Client) ParseTasks(r io.Reader) ([]Task, error) {
	var tasks []Task
	decoder := json.NewDecoder(r)
	for {
		var task Task
		if err := decoder.Decode(&task); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to decode task json: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// Save persists the task's description, status and estimate back to
// taskwarrior via `task <uuid> modify`. Idempotent for identical input.
func (c *Client) Save(t Task) error {
	args := []string{
		"rc.bulk=0",
		"rc.confirmation=off",
		"rc.dependency.confirmation=off",
		"rc.recurrence.confirmation=off",
		t.UUID,
		"modify",
		t.Description,
		"status:" + t.Status,
		"estimate:" + t.Estimate,
	}
	if err := exec.Command(c.binary(), args...).Run(); err != nil {
		return fmt.Errorf("task modify failed for %s: %w", t.UUID, err)
	}
	return nil
}

// SetEstimate rewrites only the estimate field of the given task.
func (c *Client) SetEstimate(uuid string, estimate int) error {
	args := []string{
		"rc.confirmation=off",
		uuid,
		"modify",
		"estimate:" + strconv.Itoa(estimate),
	}
	if err := exec.Command(c.binary(), args...).Run(); err != nil {
		return fmt.Errorf("task modify estimate failed for %s: %w", uuid, err)
	}
	return nil
}

// AddTag tags the task without touching its other fields.
func (c *Client) AddTag(uuid, tag string) error {
	return c.modifyTag(uuid, "+"+tag)
}

// RemoveTag removes the tag from the task.
func (c *Client) RemoveTag(uuid, tag string) error {
	return c.modifyTag(uuid, "-"+tag)
}

func (c *Client) modifyTag(uuid, tagArg string) error {
	args := []string{"rc.confirmation=off", uuid, "modify", tagArg}
	if err := exec.Command(c.binary(), args...).Run(); err != nil {
		return fmt.Errorf("task modify %s failed for %s: %w", tagArg, uuid, err)
	}
	return nil
}

// EditCommand builds the `task <uuid> edit` command without starting it, so
// the TUI can hand it to the terminal while the session is suspended.
func (c *Client) EditCommand(uuid string) *exec.Cmd {
	return exec.Command(c.binary(), uuid, "edit")
}
