package docker

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/0xsecaas/safecrate/internal/model"
)

// Label key constants define the Docker label keys used to persist session
// metadata on kept containers. These labels are the sole persistence
// mechanism — there is no external state file.
//
// All keys share the "safecrate." prefix to namespace them and avoid
// collisions with labels set by other tools.
const (
	// LabelPrefix is the common prefix for all safecrate labels.
	LabelPrefix = "safecrate."

	// LabelManagedBy identifies containers managed by safecrate.
	// This is the primary label used for filtering and discovery.
	LabelManagedBy = LabelPrefix + "managed-by"

	// LabelDir stores the canonicalized project directory path mounted
	// into the container.
	LabelDir = LabelPrefix + "dir"

	// LabelImage stores the base image tag the container was created from.
	LabelImage = LabelPrefix + "image"

	// LabelCommand stores the shell command the session was opened with.
	LabelCommand = LabelPrefix + "command"

	// LabelNoNetwork stores "true" when the session was opened with
	// networking disabled.
	LabelNoNetwork = LabelPrefix + "no-network"

	// LabelCreatedAt stores the RFC3339 timestamp of session creation.
	LabelCreatedAt = LabelPrefix + "created-at"

	// LabelPublishPrefix is the prefix for per-binding publish labels.
	// Each port binding gets its own label keyed by host port and protocol:
	//
	//	"safecrate.publish.8080-tcp" = "3000"
	//
	// This per-binding design keeps every label independently parseable
	// and human-readable under `docker inspect`.
	LabelPublishPrefix = LabelPrefix + "publish."
)

// ManagedByValue is the constant value for the LabelManagedBy label.
const ManagedByValue = "safecrate"

// BuildLabels constructs a Docker label map from a Session. The labels are
// applied to kept containers, allowing full reconstruction of the Session
// from container inspection alone.
func BuildLabels(sess *model.Session) map[string]string {
	labels := map[string]string{
		LabelManagedBy: ManagedByValue,
		LabelDir:       sess.Dir,
		LabelImage:     sess.Image,
		LabelCommand:   sess.Command,
		LabelNoNetwork: strconv.FormatBool(sess.NoNetwork),
		// UTC keeps timestamps consistent regardless of host timezone.
		LabelCreatedAt: sess.CreatedAt.UTC().Format(time.RFC3339),
	}

	for _, b := range sess.Publishes {
		key := BuildPublishLabel(b.HostPort, b.Protocol)
		labels[key] = strconv.Itoa(b.ContainerPort)
	}

	return labels
}

// BuildPublishLabel returns the label key for one port binding.
func BuildPublishLabel(hostPort int, protocol string) string {
	if protocol == "" {
		protocol = "tcp"
	}
	return fmt.Sprintf("%s%d-%s", LabelPublishPrefix, hostPort, protocol)
}

// SortedLabelArgs flattens a label map into sorted "key=value" strings for
// use as repeated --label flags. Sorting matters because Go randomizes map
// iteration order and the constructed argv should be deterministic.
func SortedLabelArgs(labels map[string]string) []string {
	args := make([]string, 0, len(labels))
	for k, v := range labels {
		args = append(args, k+"="+v)
	}
	sort.Strings(args)
	return args
}

// ParseLabels reconstructs a Session from Docker container labels.
// This is the inverse of BuildLabels, used by list to rebuild the domain
// model from inspection data.
//
// Required labels: managed-by, dir, image, created-at. Missing required
// labels cause an error naming all of them at once, which makes corrupted
// containers easier to diagnose. Command, no-network and publish labels
// are optional. Status is NOT reconstructed from labels because it is
// runtime container state, not session metadata.
func ParseLabels(labels map[string]string) (*model.Session, error) {
	requiredKeys := []string{
		LabelManagedBy,
		LabelDir,
		LabelImage,
		LabelCreatedAt,
	}

	var missing []string
	for _, key := range requiredKeys {
		if labels[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("container is missing required safecrate labels: %s",
			strings.Join(missing, ", "))
	}

	if labels[LabelManagedBy] != ManagedByValue {
		return nil, fmt.Errorf("container has foreign managed-by label %q", labels[LabelManagedBy])
	}

	createdAt, err := time.Parse(time.RFC3339, labels[LabelCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("invalid %s label %q: %w", LabelCreatedAt, labels[LabelCreatedAt], err)
	}

	sess := &model.Session{
		Dir:       labels[LabelDir],
		Image:     labels[LabelImage],
		Command:   labels[LabelCommand],
		NoNetwork: labels[LabelNoNetwork] == "true",
		// A labelled container is by definition a kept one.
		KeepContainer: true,
		CreatedAt:     createdAt,
	}

	publishes, err := parsePublishLabels(labels)
	if err != nil {
		return nil, err
	}
	sess.Publishes = publishes

	return sess, nil
}

// parsePublishLabels extracts port bindings from publish labels.
// Keys look like "safecrate.publish.8080-tcp" with the container port as
// the value. Bindings are returned sorted by host port for stable output.
func parsePublishLabels(labels map[string]string) ([]model.PortBinding, error) {
	var bindings []model.PortBinding

	for key, value := range labels {
		if !strings.HasPrefix(key, LabelPublishPrefix) {
			continue
		}

		spec := strings.TrimPrefix(key, LabelPublishPrefix)
		hostPart, proto, ok := strings.Cut(spec, "-")
		if !ok {
			return nil, fmt.Errorf("malformed publish label key %q", key)
		}

		hostPort, err := strconv.Atoi(hostPart)
		if err != nil {
			return nil, fmt.Errorf("malformed publish label key %q: %w", key, err)
		}
		containerPort, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("malformed publish label value %q=%q: %w", key, value, err)
		}

		bindings = append(bindings, model.PortBinding{
			HostPort:      hostPort,
			ContainerPort: containerPort,
			Protocol:      proto,
		})
	}

	sort.Slice(bindings, func(i, j int) bool {
		if bindings[i].HostPort != bindings[j].HostPort {
			return bindings[i].HostPort < bindings[j].HostPort
		}
		return bindings[i].Protocol < bindings[j].Protocol
	})

	return bindings, nil
}
