// Package main provides the job_match CLI: the HTTP API server plus offline
// matching and gap analysis commands.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/job-match/internal/config"
	"github.com/jonathan/job-match/internal/logging"
	"github.com/jonathan/job-match/internal/schemas"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const app = "job_match"

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "Candidate/job match scoring engine",
		Long:         "job_match scores candidates against job postings on skills, location, salary, experience and role, ranks the results and analyzes skill gaps. It runs as an HTTP API or as offline commands over JSON files.",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON); defaults and environment are used when omitted")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		panic(fmt.Sprintf("failed to bind debug flag: %v", err))
	}
	if err := viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json")); err != nil {
		panic(fmt.Sprintf("failed to bind json flag: %v", err))
	}
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration named by --config on top of defaults and
// the environment, and logs any warnings.
func loadConfig(logger *zap.Logger) (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	for _, w := range cfg.Warnings() {
		logger.Warn("config", zap.String("warning", w))
	}
	return cfg, nil
}

// newLogger builds the logger for the server. Offline commands pass stderr so
// stdout carries only their JSON output.
func newLogger(stderr bool) (*zap.Logger, error) {
	newFn := logging.New
	if stderr {
		newFn = logging.NewStderr
	}
	logger, err := newFn(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// resolveSchemasDir locates the schemas directory from the working directory or
// up to two parents. Returns "" when it cannot be found.
func resolveSchemasDir(dir string) string {
	if dir == "" {
		return ""
	}
	if filepath.IsAbs(dir) {
		if _, err := os.Stat(filepath.Join(dir, schemas.MatchRequestSchema)); err == nil {
			return dir
		}
		return ""
	}
	path := schemas.ResolveSchemaPath(filepath.Join(dir, schemas.MatchRequestSchema))
	if path == "" {
		return ""
	}
	return filepath.Dir(path)
}

// validateInput checks a JSON input file against a schema in schemasDir. A
// missing schemas directory skips the check.
func validateInput(schemasDir, schemaName, jsonPath string) error {
	if schemasDir == "" {
		return nil
	}
	if err := schemas.ValidateJSON(filepath.Join(schemasDir, schemaName), jsonPath); err != nil {
		return fmt.Errorf("invalid input %s: %w", jsonPath, err)
	}
	return nil
}

func readJSONFile(path string, dst any) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if err := json.Unmarshal(content, dst); err != nil {
		return fmt.Errorf("failed to unmarshal JSON from %s: %w", path, err)
	}
	return nil
}

// writeJSON writes v as indented JSON to path, or to stdout when path is empty.
func writeJSON(stdout io.Writer, path string, v any) error {
	jsonOutput, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output to JSON: %w", err)
	}

	if path == "" {
		_, err := fmt.Fprintln(stdout, string(jsonOutput))
		return err
	}

	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}
	if err := os.WriteFile(path, jsonOutput, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
