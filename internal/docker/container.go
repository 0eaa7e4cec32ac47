package docker

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"

	"github.com/0xsecaas/safecrate/internal/model"
)

// ListManagedContainers queries the Docker daemon for all containers that
// carry the "safecrate.managed-by=safecrate" label. It returns a slice of
// ContainerInfo representing each managed container, including stopped ones.
//
// This is the discovery entry point for the list command. All state is
// derived from Docker labels rather than any external database; only
// containers created with --keep-container carry labels, because
// auto-removed containers are gone before anyone could list them.
func ListManagedContainers(ctx context.Context, cli *Client) ([]model.ContainerInfo, error) {
	// Filter server-side on the management label rather than listing
	// everything and filtering in Go.
	filterArgs := filters.NewArgs(
		filters.Arg("label", LabelManagedBy+"="+ManagedByValue),
	)

	// All ensures stopped/exited containers are included — a kept sandbox
	// spends most of its life stopped.
	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"failed to list Docker containers",
			err,
		)
	}

	result := make([]model.ContainerInfo, 0, len(containers))
	for _, c := range containers {
		result = append(result, containerToInfo(c))
	}

	return result, nil
}

// FindContainerByName looks up a container (running or stopped) whose name
// matches exactly. Returns nil without error when no such container exists,
// which is the signal resume uses to fail before ever invoking the engine's
// start operation.
//
// Docker's "name" filter performs substring matching, so a filter query for
// "proj_isolated" would also match "otherproj_isolated". The results are
// therefore post-filtered for an exact match.
func FindContainerByName(ctx context.Context, cli *Client, name string) (*model.ContainerInfo, error) {
	filterArgs := filters.NewArgs(
		filters.Arg("name", name),
	)

	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to look up container %q", name),
			err,
		)
	}

	return matchExactName(containers, name), nil
}

// matchExactName scans a name-filtered container list for the entry whose
// name equals name exactly. Split out from FindContainerByName so the
// substring-vs-exact distinction is testable without a daemon.
func matchExactName(containers []types.Container, name string) *model.ContainerInfo {
	for _, c := range containers {
		for _, n := range c.Names {
			// The Docker API reports names with a leading "/".
			if strings.TrimPrefix(n, "/") == name {
				info := containerToInfo(c)
				return &info
			}
		}
	}
	return nil
}

// containerToInfo converts a Docker API Container struct to the domain
// model ContainerInfo. This is a pure mapping function with no side effects.
//
// The Docker API returns container names with a leading "/" prefix
// (e.g., "/proj_isolated"), which is stripped for cleaner CLI output.
func containerToInfo(c types.Container) model.ContainerInfo {
	name := ""
	if len(c.Names) > 0 {
		name = strings.TrimPrefix(c.Names[0], "/")
	}

	return model.ContainerInfo{
		ContainerID:   c.ID,
		ContainerName: name,
		State:         c.State,
		Labels:        c.Labels,
	}
}

// RemoveContainer removes a container by name or ID using the Docker SDK.
// The container must be stopped first unless force is true.
//
// When force is true, Docker kills the container (SIGKILL) before removing
// it. Without force, removing a running container surfaces the engine's
// own refusal rather than silently succeeding.
func RemoveContainer(ctx context.Context, cli *Client, nameOrID string, force bool) error {
	err := cli.Inner().ContainerRemove(ctx, nameOrID, container.RemoveOptions{
		Force: force,
	})
	if err != nil {
		return model.WrapCLIError(
			model.ExitEngineFailure,
			fmt.Sprintf("failed to remove container %q", nameOrID),
			err,
		)
	}
	return nil
}
