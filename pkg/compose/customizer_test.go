package compose_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelab/go-compose/pkg/compose"
)

func TestCustomizeApply(t *testing.T) {
	t.Parallel()

	feat := newFeature(t)

	cst := compose.Customize("feat", "post_get", compose.Append(), "").
		With(double, "self", "driver", "value")
	assert.Equal(t, "feat", cst.Target())

	require.NoError(t, cst.Apply(feat))

	slot, _ := feat.Operation("post_get")
	require.True(t, slot.Chained())
	assert.Equal(t, []string{"old", "custom"}, slot.Pipeline().IDs())
	assert.Equal(t, 4.0, invokeOp(t, feat, "post_get", 2))
}

func TestCustomizeMissingFunc(t *testing.T) {
	t.Parallel()

	feat := newFeature(t)

	err := compose.Customize("feat", "post_get", compose.Append(), "custom").Apply(feat)
	assert.ErrorIs(t, err, compose.ErrMissingFunc)
}

func TestCustomizeRemove(t *testing.T) {
	t.Parallel()

	feat := newFeature(t)

	apply := compose.Customize("feat", "post_get", compose.Append(), "custom").
		With(double, "self", "driver", "value")
	require.NoError(t, apply.Apply(feat))

	// A step removal is the one directive not needing a function.
	remove := compose.Customize("feat", "post_get", compose.RemoveStep("custom"), "custom")
	require.NoError(t, remove.Apply(feat))

	slot, _ := feat.Operation("post_get")
	require.True(t, slot.Chained())
	assert.Equal(t, []string{"old"}, slot.Pipeline().IDs())
	assert.Equal(t, 2.0, invokeOp(t, feat, "post_get", 2))
}
