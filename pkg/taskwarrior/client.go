// Package taskwarrior reads pending tasks out of Taskwarrior so they can be
// planned into the day.
package taskwarrior

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

type Client struct {
	// Bin is the taskwarrior executable, "task" when empty.
	Bin string
}

func NewClient() *Client {
	return &Client{Bin: "task"}
}

// Export runs `task <filter> export` and decodes its output.
func (c *Client) Export(ctx context.Context, filter []string) ([]Task, error) {
	bin := c.Bin
	if bin == "" {
		bin = "task"
	}
	args := append(append([]string{}, filter...), "export", "rc.hooks=0")
	cmd := exec.CommandContext(ctx, bin, args...)

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("taskwarrior command failed: exit code %d, %s, stderr: %s",
				exitErr.ExitCode(), err, exitErr.Stderr)
		}
		return nil, fmt.Errorf("taskwarrior command failed: %w", err)
	}
	return c.ParseTasks(bytes.NewReader(output))
}

// ParseTasks decodes either an export array or a stream of JSON objects, one
// per line, as hooks receive them.
func (c *Client) ParseTasks(r io.Reader) ([]Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var tasks []Task
	if data[0] == '[' {
		if err := json.Unmarshal(data, &tasks); err != nil {
			return nil, fmt.Errorf("failed to unmarshal taskwarrior output: %w", err)
		}
		return tasks, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
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
