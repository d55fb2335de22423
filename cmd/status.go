package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cwbudde/sgafit/internal/server"
	"github.com/spf13/cobra"
)

var (
	serverURL string
)

var statusCmd = &cobra.Command{
	Use:   "status [job-id]",
	Short: "Query server status or specific job",
	Long: `Queries the server for job status information.
If no job-id is provided, lists all jobs.
If job-id is provided, shows detailed status for that job.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Server URL")
	rootCmd.AddCommand(statusCmd)
}

// jobStatus is the body of GET /api/v1/jobs/{id}/status.
type jobStatus struct {
	server.Job
	Elapsed float64 `json:"elapsed"` // seconds
	GPS     float64 `json:"gps"`     // generations per second
}

func runStatus(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return listJobs(cmd.OutOrStdout(), fmt.Sprintf("%s/api/v1/jobs", serverURL))
	}
	jobID := args[0]
	return getJobStatus(cmd.OutOrStdout(), fmt.Sprintf("%s/api/v1/jobs/%s/status", serverURL, jobID), jobID)
}

func getJSON(url string, v any) (int, error) {
	resp, err := http.Get(url)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, fmt.Errorf("server returned error: %s", string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, nil
}

func listJobs(out io.Writer, url string) error {
	var jobs []server.Job
	if _, err := getJSON(url, &jobs); err != nil {
		return err
	}

	if len(jobs) == 0 {
		fmt.Fprintln(out, "No jobs found")
		return nil
	}

	fmt.Fprintf(out, "Found %d job(s):\n\n", len(jobs))
	for _, job := range jobs {
		fmt.Fprintf(out, "Job ID: %s\n", job.ID)
		fmt.Fprintf(out, "  State: %s\n", job.State)
		fmt.Fprintf(out, "  Objective: %s (pop %d, lchrom %d)\n",
			job.Config.Objective, job.Config.PopSize, job.Config.ChromLength)
		fmt.Fprintf(out, "  Generation: %d/%d\n", job.Generation, job.Config.MaxGen)
		if job.Generation > 0 {
			fmt.Fprintf(out, "  Max fitness: %.3f -> %.3f\n", job.Initial.Max, job.Stats.Max)
		}
		fmt.Fprintln(out)
	}

	return nil
}

func getJobStatus(out io.Writer, url, jobID string) error {
	var status jobStatus
	code, err := getJSON(url, &status)
	if code == http.StatusNotFound {
		return fmt.Errorf("job not found: %s", jobID)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Job: %s\n", status.ID)
	fmt.Fprintf(out, "State: %s\n", status.State)
	fmt.Fprintln(out)

	c := status.Config
	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintf(out, "  Population: %d\n", c.PopSize)
	fmt.Fprintf(out, "  Chromosome length: %d\n", c.ChromLength)
	fmt.Fprintf(out, "  Max generations: %d\n", c.MaxGen)
	fmt.Fprintf(out, "  Crossover: %s (p=%.3f)\n", c.Crossover, c.PCross)
	fmt.Fprintf(out, "  Mutation: p=%.3f\n", c.PMutation)
	fmt.Fprintf(out, "  Objective: %s\n", c.Objective)
	fmt.Fprintf(out, "  Seed: %d\n", c.Seed)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Progress:")
	fmt.Fprintf(out, "  Generation: %d/%d\n", status.Generation, c.MaxGen)
	fmt.Fprintf(out, "  Max fitness: %.6f -> %.6f\n", status.Initial.Max, status.Stats.Max)
	fmt.Fprintf(out, "  Avg fitness: %.6f -> %.6f\n", status.Initial.Avg, status.Stats.Avg)
	if status.Best != nil {
		fmt.Fprintf(out, "  Best: %s (x=%.0f)\n", status.Best.Chrom, status.Best.X)
	}
	if status.Converged {
		fmt.Fprintln(out, "  Converged early")
	}

	elapsed := time.Duration(status.Elapsed * float64(time.Second))
	fmt.Fprintf(out, "  Elapsed: %s\n", elapsed.Round(time.Millisecond))
	if status.GPS > 0 {
		fmt.Fprintf(out, "  Throughput: %.0f generations/sec\n", status.GPS)
	}

	if status.Error != "" {
		fmt.Fprintf(out, "\nError: %s\n", status.Error)
	}

	return nil
}
