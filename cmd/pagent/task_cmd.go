package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fentz26/pagent/internal/models"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Inspect captured tasks",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks captured from assistant replies",
	RunE:  runTaskList,
}

var taskClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all captured tasks",
	RunE:  runTaskClear,
}

var taskShowRaw bool

func init() {
	taskCmd.AddCommand(taskListCmd, taskClearCmd)

	taskListCmd.Flags().BoolVar(&taskShowRaw, "raw", false, "Include the raw payload each task was captured from")
}

func runTaskList(cmd *cobra.Command, args []string) error {
	resp, err := apiGet("/tasks")
	if err != nil {
		return err
	}

	var tasks []models.IngestedTask
	if err := json.Unmarshal(resp, &tasks); err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks captured")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRIORITY\tSTATUS\tRECEIVED")
	for _, t := range tasks {
		priority := string(t.ExplicitPriority)
		if priority == "" {
			priority = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			truncate(t.ID, 24), truncate(t.Name, 40), priority, t.CompletionStatus, t.ReceivedAt.Local().Format("2006-01-02 15:04"))
	}
	w.Flush()

	if taskShowRaw {
		fmt.Println()
		for _, t := range tasks {
			fmt.Printf("%s:\n%s\n\n", t.ID, t.RawSource)
		}
	}
	return nil
}

func runTaskClear(cmd *cobra.Command, args []string) error {
	resp, err := apiDelete("/tasks")
	if err != nil {
		return err
	}

	var result map[string]int
	if err := json.Unmarshal(resp, &result); err != nil {
		return err
	}

	fmt.Printf("Cleared %d tasks\n", result["cleared"])
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
