package mcp

import (
	"errors"
	"time"
)

var (
	errEmptyText = errors.New("text is required")
	errNoTaskID  = errors.New("task_id is required")

	timeNow = time.Now
)
