// Package cli — list.go implements the "safecrate list" command.
//
// The list command displays all kept sandbox containers by querying Docker
// for containers with the "safecrate.managed-by=safecrate" label and
// reconstructing each session from its labels. Auto-removed sessions never
// appear here: only --keep-container leaves something to list.
package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/0xsecaas/safecrate/internal/docker"
	"github.com/0xsecaas/safecrate/internal/model"
)

// listFlags holds the flag values for the list command.
type listFlags struct {
	// status filters sessions by container state.
	// Valid values: "running", "stopped", "all" (default).
	status string
}

// NewListCommand creates the "list" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List kept sandbox containers",
		Long: `List all kept sandbox containers and the directories they belong to.

Each entry shows the container name, its state, the project directory and
when the session was created.

Examples:
  safecrate list
  safecrate list --status running
  safecrate list --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.status, "status", "all",
		"Filter by status: running, stopped, all")

	return cmd
}

// listEntry pairs a reconstructed session with its container's runtime
// identity for output.
type listEntry struct {
	Container string `json:"container"`
	Dir       string `json:"dir"`
	Status    string `json:"status"`
	Image     string `json:"image"`
	CreatedAt string `json:"createdAt"`
	NoNetwork bool   `json:"noNetwork,omitempty"`
}

// runList is the main logic function for the list command.
func runList(ctx context.Context, flags *listFlags) error {
	// Step 1: Validate the --status flag value.
	statusFilter := flags.status
	if statusFilter != "all" {
		if _, err := model.ParseSessionStatus(statusFilter); err != nil {
			return model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("invalid status filter %q: valid values are running, stopped, all", statusFilter), nil)
		}
	}

	// Step 2: Connect to Docker and discover managed containers.
	cli, err := docker.NewClient(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	containers, err := docker.ListManagedContainers(ctx, cli)
	if err != nil {
		return err
	}
	VerboseLog("Found %d managed container(s)", len(containers))

	// Step 3: Reconstruct each session from its labels.
	entries := buildListEntries(containers, statusFilter)

	// Step 4: Output.
	printListResult(entries)
	return nil
}

// buildListEntries converts discovered containers into output entries,
// applying the status filter. Containers with corrupted labels are skipped
// rather than failing the whole listing.
func buildListEntries(containers []model.ContainerInfo, statusFilter string) []listEntry {
	entries := make([]listEntry, 0, len(containers))

	for i := range containers {
		c := &containers[i]

		sess, err := docker.ParseLabels(c.Labels)
		if err != nil {
			// One corrupted container should not hide the others.
			VerboseLog("Warning: skipping container %s: %v", c.ContainerName, err)
			continue
		}

		status := c.Status()
		if statusFilter != "all" && status.String() != statusFilter {
			continue
		}

		entries = append(entries, listEntry{
			Container: c.ContainerName,
			Dir:       sess.Dir,
			Status:    status.String(),
			Image:     sess.Image,
			CreatedAt: sess.CreatedAt.Format("2006-01-02 15:04"),
			NoNetwork: sess.NoNetwork,
		})
	}

	// Alphabetical by container name for consistent output.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Container < entries[j].Container
	})

	return entries
}

// printListResult outputs the list in text or JSON format.
func printListResult(entries []listEntry) {
	if IsJSONOutput() {
		printJSON(entries)
		return
	}

	if len(entries) == 0 {
		fmt.Println("No kept containers. Use `safecrate open <dir> --keep-container` to keep one.")
		return
	}

	// Simple fixed-width table; container names are short enough that
	// fancy column sizing isn't worth the code.
	fmt.Printf("%-32s %-8s %-10s %s\n", "CONTAINER", "STATUS", "NETWORK", "DIRECTORY")
	for _, e := range entries {
		network := "bridge"
		if e.NoNetwork {
			network = "none"
		}
		fmt.Printf("%-32s %-8s %-10s %s\n", e.Container, e.Status, network, e.Dir)
	}
}
