package docker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xsecaas/safecrate/internal/model"
)

// TestBuildLabels verifies that BuildLabels converts a Session into a
// Docker label map with all required keys and values.
func TestBuildLabels(t *testing.T) {
	// Arrange: a kept session with two published ports.
	createdAt := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	sess := &model.Session{
		Dir:           "/home/u/proj",
		ContainerName: "proj_isolated",
		Image:         "safecrate_default",
		Command:       "nvim .",
		KeepContainer: true,
		NoNetwork:     true,
		Publishes: []model.PortBinding{
			{HostPort: 8080, ContainerPort: 3000, Protocol: "tcp"},
			{HostPort: 5353, ContainerPort: 53, Protocol: "udp"},
		},
		CreatedAt: createdAt,
	}

	// Act
	labels := BuildLabels(sess)

	// Assert: static labels.
	assert.Equal(t, ManagedByValue, labels[LabelManagedBy],
		"managed-by label should always be set to the constant value")
	assert.Equal(t, "/home/u/proj", labels[LabelDir])
	assert.Equal(t, "safecrate_default", labels[LabelImage])
	assert.Equal(t, "nvim .", labels[LabelCommand])
	assert.Equal(t, "true", labels[LabelNoNetwork])
	assert.Equal(t, "2026-08-30T10:00:00Z", labels[LabelCreatedAt])

	// Assert: per-binding publish labels.
	assert.Equal(t, "3000", labels["safecrate.publish.8080-tcp"])
	assert.Equal(t, "53", labels["safecrate.publish.5353-udp"])

	// 6 static + 2 publish labels.
	assert.Len(t, labels, 8)
}

// TestBuildLabels_NoPublishes verifies the label map for the common
// editor-only session.
func TestBuildLabels_NoPublishes(t *testing.T) {
	sess := &model.Session{
		Dir:           "/tmp/proj",
		Image:         "safecrate_default",
		Command:       "nvim .",
		KeepContainer: true,
		CreatedAt:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	labels := BuildLabels(sess)

	assert.Len(t, labels, 6)
	assert.Equal(t, "false", labels[LabelNoNetwork])
}

// TestSortedLabelArgs verifies the --label flag flattening is sorted and
// therefore deterministic across runs.
func TestSortedLabelArgs(t *testing.T) {
	labels := map[string]string{
		"safecrate.managed-by": "safecrate",
		"safecrate.dir":        "/home/u/proj",
		"safecrate.image":      "safecrate_default",
	}

	args := SortedLabelArgs(labels)

	assert.Equal(t, []string{
		"safecrate.dir=/home/u/proj",
		"safecrate.image=safecrate_default",
		"safecrate.managed-by=safecrate",
	}, args)
}

// TestParseLabels verifies that ParseLabels reconstructs a Session from a
// label map. This is the inverse of BuildLabels.
func TestParseLabels(t *testing.T) {
	labels := map[string]string{
		LabelManagedBy:               ManagedByValue,
		LabelDir:                     "/home/u/proj",
		LabelImage:                   "safecrate_default",
		LabelCommand:                 "nvim .",
		LabelNoNetwork:               "true",
		LabelCreatedAt:               "2026-08-30T10:00:00Z",
		"safecrate.publish.8080-tcp": "3000",
		"safecrate.publish.5353-udp": "53",
	}

	sess, err := ParseLabels(labels)

	require.NoError(t, err)
	assert.Equal(t, "/home/u/proj", sess.Dir)
	assert.Equal(t, "safecrate_default", sess.Image)
	assert.Equal(t, "nvim .", sess.Command)
	assert.True(t, sess.NoNetwork)
	assert.True(t, sess.KeepContainer, "a labelled container is by definition kept")
	assert.Equal(t, time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC), sess.CreatedAt)

	// Bindings come back sorted by host port.
	require.Len(t, sess.Publishes, 2)
	assert.Equal(t, model.PortBinding{HostPort: 5353, ContainerPort: 53, Protocol: "udp"}, sess.Publishes[0])
	assert.Equal(t, model.PortBinding{HostPort: 8080, ContainerPort: 3000, Protocol: "tcp"}, sess.Publishes[1])
}

// TestParseLabels_MissingRequired verifies that all missing required labels
// are reported at once.
func TestParseLabels_MissingRequired(t *testing.T) {
	_, err := ParseLabels(map[string]string{
		LabelManagedBy: ManagedByValue,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), LabelDir)
	assert.Contains(t, err.Error(), LabelImage)
	assert.Contains(t, err.Error(), LabelCreatedAt)
}

// TestParseLabels_ForeignManagedBy verifies that containers labelled by
// some other tool are rejected rather than misread.
func TestParseLabels_ForeignManagedBy(t *testing.T) {
	_, err := ParseLabels(map[string]string{
		LabelManagedBy: "someone-else",
		LabelDir:       "/home/u/proj",
		LabelImage:     "img",
		LabelCreatedAt: "2026-08-30T10:00:00Z",
	})

	assert.Error(t, err)
}

// TestParseLabels_BadTimestamp verifies rejection of unparseable created-at.
func TestParseLabels_BadTimestamp(t *testing.T) {
	_, err := ParseLabels(map[string]string{
		LabelManagedBy: ManagedByValue,
		LabelDir:       "/home/u/proj",
		LabelImage:     "img",
		LabelCreatedAt: "yesterday",
	})

	assert.Error(t, err)
}

// TestParseLabels_MalformedPublish verifies that malformed publish labels
// fail parsing instead of being silently dropped.
func TestParseLabels_MalformedPublish(t *testing.T) {
	base := map[string]string{
		LabelManagedBy: ManagedByValue,
		LabelDir:       "/home/u/proj",
		LabelImage:     "img",
		LabelCreatedAt: "2026-08-30T10:00:00Z",
	}

	t.Run("key without protocol", func(t *testing.T) {
		labels := cloneLabels(base)
		labels[LabelPublishPrefix+"8080"] = "3000"
		_, err := ParseLabels(labels)
		assert.Error(t, err)
	})

	t.Run("non-numeric host port", func(t *testing.T) {
		labels := cloneLabels(base)
		labels[LabelPublishPrefix+"web-tcp"] = "3000"
		_, err := ParseLabels(labels)
		assert.Error(t, err)
	})

	t.Run("non-numeric container port", func(t *testing.T) {
		labels := cloneLabels(base)
		labels[LabelPublishPrefix+"8080-tcp"] = "http"
		_, err := ParseLabels(labels)
		assert.Error(t, err)
	})
}

func cloneLabels(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// TestLabelRoundTrip verifies BuildLabels → ParseLabels preserves the
// session metadata kept containers rely on.
func TestLabelRoundTrip(t *testing.T) {
	orig := &model.Session{
		Dir:           "/home/u/proj",
		Image:         "safecrate_default",
		Command:       "cargo build",
		KeepContainer: true,
		NoNetwork:     true,
		Publishes: []model.PortBinding{
			{HostPort: 8080, ContainerPort: 3000, Protocol: "tcp"},
		},
		CreatedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}

	parsed, err := ParseLabels(BuildLabels(orig))
	require.NoError(t, err)

	assert.Equal(t, orig.Dir, parsed.Dir)
	assert.Equal(t, orig.Image, parsed.Image)
	assert.Equal(t, orig.Command, parsed.Command)
	assert.Equal(t, orig.NoNetwork, parsed.NoNetwork)
	assert.Equal(t, orig.Publishes, parsed.Publishes)
	assert.Equal(t, orig.CreatedAt, parsed.CreatedAt)
}
