package db

import "fmt"

// JobStatus is the lifecycle state of a stored job posting.
type JobStatus string

// Job status values
const (
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
)

// Valid reports whether s is a known status.
func (s JobStatus) Valid() bool {
	return s == JobStatusOpen || s == JobStatusClosed
}

// ParseJobStatus converts a string into a JobStatus. Empty means open.
func ParseJobStatus(s string) (JobStatus, error) {
	if s == "" {
		return JobStatusOpen, nil
	}
	status := JobStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("invalid job status %q: must be %q or %q", s, JobStatusOpen, JobStatusClosed)
	}
	return status, nil
}
