package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tradearena/backend/internal/scheduler"
	"github.com/tradearena/backend/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the job scheduler",
	Long: `Starts the scheduler daemon or manages its jobs.

Registered jobs:
- ranking_recompute: Mondays at 00:05 UTC (full ranking pass)

Subcommands:
  start   - Start the scheduler daemon
  list    - List registered jobs
  run     - Run a specific job immediately

Example:
  go run ./cmd/arena scheduler start
  go run ./cmd/arena scheduler run ranking_recompute`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a specific job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runJobNow,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

// buildScheduler wires the scheduler with all jobs registered
func buildScheduler(d *deps) (*scheduler.Scheduler, error) {
	sched := scheduler.New(d.log)

	rankingsJob := jobs.NewRankingsJob(d.orchestrator, d.cache, d.log)
	if err := sched.AddJob(rankingsJob); err != nil {
		return nil, fmt.Errorf("register job %s: %w", rankingsJob.Name(), err)
	}

	return sched, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Trade Arena Scheduler ===")

	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	sched, err := buildScheduler(d)
	if err != nil {
		return err
	}

	sched.Start()
	fmt.Println("\nScheduler running. Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	sched, err := buildScheduler(d)
	if err != nil {
		return err
	}

	stats := sched.GetJobStats()
	fmt.Println("Registered jobs:")
	for _, name := range sched.GetAllJobs() {
		fmt.Printf("  %-20s schedule=%q\n", name, stats[name].Schedule)
	}

	return nil
}

func runJobNow(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	// Run synchronously so the CLI reports the outcome
	rankingsJob := jobs.NewRankingsJob(d.orchestrator, d.cache, d.log)
	if jobName != rankingsJob.Name() {
		return fmt.Errorf("job %s not found", jobName)
	}

	if err := rankingsJob.Run(context.Background()); err != nil {
		return fmt.Errorf("run job %s: %w", jobName, err)
	}

	fmt.Printf("Job %s completed\n", jobName)
	return nil
}
