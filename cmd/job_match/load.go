package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/job-match/internal/config"
	"github.com/jonathan/job-match/internal/db"
	"github.com/jonathan/job-match/internal/schemas"
	"github.com/jonathan/job-match/internal/types"
	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load candidate and job profiles into the database",
	Long: `Reads JSON arrays of candidates and jobs, checks each entry against its schema and upserts them into the profile store.

Candidate IDs are UUIDs. An entry whose id is not a UUID is stored under a UUID
derived from that id, and an entry without an id gets one derived from its name
(or, when it has no name, from its content). Loading the same file twice
updates the same rows instead of adding new ones.`,
	RunE:  runLoad,
}

var jobStatusCmd = &cobra.Command{
	Use:   "job-status <job_id> <open|closed>",
	Short: "Open or close a stored job",
	Args:  cobra.ExactArgs(2),
	RunE:  runJobStatus,
}

var (
	loadCandidates string
	loadJobs       string
	loadStatus     string
)

// candidateNamespace scopes the name-based UUIDs given to loaded candidates.
var candidateNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/jonathan/job-match/candidates"))

// profileWriter is the part of the profile store the load commands need.
type profileWriter interface {
	UpsertCandidate(ctx context.Context, c *types.Candidate) error
	UpsertJob(ctx context.Context, j *types.Job, status db.JobStatus) error
	SetJobStatus(ctx context.Context, jobID string, status db.JobStatus) (bool, error)
}

func init() {
	loadCmd.Flags().StringVarP(&loadCandidates, "candidates", "c", "", "Path to a JSON array of candidates")
	loadCmd.Flags().StringVar(&loadJobs, "jobs", "", "Path to a JSON array of jobs")
	loadCmd.Flags().StringVar(&loadStatus, "status", "open", "Status for loaded jobs (open or closed)")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(jobStatusCmd)
}

func runLoad(cmd *cobra.Command, _ []string) error {
	if loadCandidates == "" && loadJobs == "" {
		return fmt.Errorf("nothing to load: pass --candidates and/or --jobs")
	}
	status, err := db.ParseJobStatus(loadStatus)
	if err != nil {
		return err
	}

	store, cfg, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	schemasDir := resolveSchemasDir(cfg.SchemasDir)

	if loadCandidates != "" {
		n, err := loadCandidateFile(cmd.Context(), store, schemasDir, loadCandidates)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d candidates from %s\n", n, loadCandidates)
	}
	if loadJobs != "" {
		n, err := loadJobFile(cmd.Context(), store, schemasDir, loadJobs, status)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d jobs from %s\n", n, loadJobs)
	}
	return nil
}

func runJobStatus(cmd *cobra.Command, args []string) error {
	status, err := db.ParseJobStatus(args[1])
	if err != nil {
		return err
	}

	store, _, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	return setJobStatus(cmd.Context(), store, args[0], status)
}

func setJobStatus(ctx context.Context, store profileWriter, jobID string, status db.JobStatus) error {
	found, err := store.SetJobStatus(ctx, jobID, status)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("job not found: %s", jobID)
	}
	return nil
}

// openStore loads the configuration and connects to its database.
func openStore(ctx context.Context) (*db.DB, *config.Config, error) {
	logger, err := newLogger(true)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(logger)
	if err != nil {
		return nil, nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("database URL is not configured (set DATABASE_URL or database-url)")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return database, cfg, nil
}

// readEntries reads a JSON array and checks each element against schemaName.
func readEntries(schemasDir, schemaName, path string) ([]json.RawMessage, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(content, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON array from %s: %w", path, err)
	}

	if schemasDir != "" {
		schemaPath := filepath.Join(schemasDir, schemaName)
		for i, raw := range entries {
			if err := schemas.ValidateBytes(schemaPath, raw); err != nil {
				return nil, fmt.Errorf("invalid entry %d in %s: %w", i, path, err)
			}
		}
	}
	return entries, nil
}

func loadCandidateFile(ctx context.Context, store profileWriter, schemasDir, path string) (int, error) {
	entries, err := readEntries(schemasDir, schemas.CandidateSchema, path)
	if err != nil {
		return 0, err
	}

	for i, raw := range entries {
		var c types.Candidate
		if err := json.Unmarshal(raw, &c); err != nil {
			return i, fmt.Errorf("failed to decode candidate %d: %w", i, err)
		}
		c.ID, err = stableCandidateID(c)
		if err != nil {
			return i, fmt.Errorf("failed to derive id for candidate %d: %w", i, err)
		}
		if err := store.UpsertCandidate(ctx, &c); err != nil {
			return i, err
		}
	}
	return len(entries), nil
}

func loadJobFile(ctx context.Context, store profileWriter, schemasDir, path string, status db.JobStatus) (int, error) {
	entries, err := readEntries(schemasDir, schemas.JobSchema, path)
	if err != nil {
		return 0, err
	}

	for i, raw := range entries {
		var j types.Job
		if err := json.Unmarshal(raw, &j); err != nil {
			return i, fmt.Errorf("failed to decode job %d: %w", i, err)
		}
		if err := store.UpsertJob(ctx, &j, status); err != nil {
			return i, err
		}
	}
	return len(entries), nil
}

// stableCandidateID returns c's UUID, deriving a deterministic one when c has a
// non-UUID id or none at all.
func stableCandidateID(c types.Candidate) (string, error) {
	if c.ID != "" {
		if id, err := uuid.Parse(c.ID); err == nil {
			return id.String(), nil
		}
		return uuid.NewSHA1(candidateNamespace, []byte("id:"+c.ID)).String(), nil
	}

	if name := strings.ToLower(strings.TrimSpace(c.Name)); name != "" {
		return uuid.NewSHA1(candidateNamespace, []byte("name:"+name)).String(), nil
	}

	content, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return uuid.NewSHA1(candidateNamespace, append([]byte("content:"), content...)).String(), nil
}
