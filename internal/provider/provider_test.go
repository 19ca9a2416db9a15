package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOne(t *testing.T) {
	web1 := InstanceView{ID: "i-1", Name: "web-1", Cluster: "dev"}
	web1dup := InstanceView{ID: "i-2", Name: "web-1", Cluster: "dev"}

	t.Run("exactly one", func(t *testing.T) {
		got, err := One([]InstanceView{web1}, "dev", "web-1")
		require.NoError(t, err)
		assert.Equal(t, "i-1", got.ID)
	})

	t.Run("none", func(t *testing.T) {
		_, err := One[InstanceView](nil, "dev", "web-1")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInstanceNotFound)
		assert.Contains(t, err.Error(), "Cluster=dev, Name=web-1")
	})

	t.Run("many", func(t *testing.T) {
		_, err := One([]InstanceView{web1, web1dup}, "dev", "web-1")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAmbiguousTarget)
		assert.Contains(t, err.Error(), "2 instances")
		assert.Contains(t, err.Error(), "Cluster=dev, Name=web-1")
	})
}

func TestLiveFiltersTerminated(t *testing.T) {
	views := []InstanceView{
		{Name: "a", State: RunStateRunning},
		{Name: "b", State: RunStateTerminated},
		{Name: "c", State: RunStateStopped},
		{Name: "d", State: RunStateUnknown},
	}

	live := Live(views)
	require.Len(t, live, 3)
	assert.Equal(t, "a", live[0].Name)
	assert.Equal(t, "c", live[1].Name)
	assert.Equal(t, "d", live[2].Name)
}

func TestRunStateLive(t *testing.T) {
	assert.True(t, RunStateRunning.Live())
	assert.True(t, RunStateStopped.Live())
	assert.True(t, RunStateUnknown.Live())
	assert.False(t, RunStateTerminated.Live())
}

func TestOpErrorFormatting(t *testing.T) {
	cause := errors.New("boom")

	withTarget := &OpError{Provider: "ec2", Op: "destroy", Cluster: "dev", Target: "web-1", Err: cause}
	assert.Equal(t, "ec2 destroy dev/web-1: boom", withTarget.Error())

	clusterOnly := &OpError{Provider: "gce", Op: "prune", Cluster: "dev", Err: cause}
	assert.Equal(t, "gce prune dev: boom", clusterOnly.Error())

	// Cluster-independent reads carry no cluster identity.
	clusterless := &OpError{Provider: "do", Op: "regions", Err: cause}
	assert.Equal(t, "do regions: boom", clusterless.Error())
}

func TestOpErrorUnwrapsToSentinel(t *testing.T) {
	err := &OpError{
		Provider: "do",
		Op:       "reboot",
		Cluster:  "dev",
		Target:   "web-1",
		Err:      errors.Join(errors.New("detail"), ErrInstanceNotFound),
	}

	assert.ErrorIs(t, err, ErrInstanceNotFound)

	var op *OpError
	require.ErrorAs(t, error(err), &op)
	assert.Equal(t, "reboot", op.Op)
}
