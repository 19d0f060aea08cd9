package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studiowebux/shopdemo/internal/types"
)

func staticLoader(items []string, err error) Loader[string] {
	return func(ctx context.Context, limit int) ([]string, error) {
		if err != nil {
			return nil, err
		}
		if limit < len(items) {
			return items[:limit], nil
		}
		return items, nil
	}
}

func TestNew_StartsLocalWithSample(t *testing.T) {
	c := New("words", []string{"a", "b"}, 5, staticLoader(nil, nil), nil)

	assert.Equal(t, types.SourceLocal, c.Mode())
	assert.False(t, c.Busy())
	assert.Equal(t, []string{"a", "b"}, c.Items())
	assert.Equal(t, 2, c.Len())
}

func TestLoad_RemoteReplacesWholesale(t *testing.T) {
	c := New("words", []string{"a", "b"}, 2, staticLoader([]string{"x", "y", "z"}, nil), nil)

	require.NoError(t, c.Load(context.Background(), types.SourceRemote))

	assert.Equal(t, types.SourceRemote, c.Mode())
	assert.False(t, c.Busy())
	assert.Equal(t, []string{"x", "y"}, c.Items())
}

func TestLoad_RemoteFailureKeepsPriorItems(t *testing.T) {
	boom := errors.New("boom")
	c := New("words", []string{"a"}, 2, staticLoader(nil, boom), nil)

	err := c.Load(context.Background(), types.SourceRemote)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a"}, c.Items())
	assert.False(t, c.Busy(), "busy must clear regardless of outcome")
	assert.Equal(t, types.SourceRemote, c.Mode())
}

func TestRoundTripRestoresSample(t *testing.T) {
	sample := []string{"a", "b", "c"}
	c := New("words", sample, 5, staticLoader([]string{"remote"}, nil), nil)

	require.NoError(t, c.Load(context.Background(), types.SourceRemote))
	require.NoError(t, c.Load(context.Background(), types.SourceLocal))

	assert.Equal(t, sample, c.Items())
}

func TestBusyDuringFetch(t *testing.T) {
	c := New("words", nil, 5, staticLoader(nil, nil), nil)

	ticket, remote := c.SetSourceMode(types.SourceRemote)
	require.True(t, remote)
	assert.True(t, c.Busy())
	assert.Equal(t, 5, ticket.Limit)

	c.Apply(ticket, []string{"done"}, nil)
	assert.False(t, c.Busy())
}

func TestStaleResultIsDiscarded(t *testing.T) {
	sample := []string{"local"}
	c := New("words", sample, 5, staticLoader(nil, nil), nil)

	ticket, remote := c.SetSourceMode(types.SourceRemote)
	require.True(t, remote)

	// user switches back before the fetch completes
	_, remote = c.SetSourceMode(types.SourceLocal)
	require.False(t, remote)
	assert.False(t, c.Busy())

	assert.False(t, c.Current(ticket))
	applied := c.Apply(ticket, []string{"stale"}, nil)
	assert.False(t, applied)
	assert.Equal(t, sample, c.Items())
	assert.Equal(t, types.SourceLocal, c.Mode())
}

func TestLastRemoteSwitchWins(t *testing.T) {
	c := New("words", nil, 5, staticLoader(nil, nil), nil)

	first, _ := c.SetSourceMode(types.SourceRemote)
	second, _ := c.SetSourceMode(types.SourceRemote)

	assert.True(t, c.Apply(second, []string{"new"}, nil))
	assert.False(t, c.Apply(first, []string{"old"}, nil))
	assert.Equal(t, []string{"new"}, c.Items())
}

func TestMutate_OnlyInLocalMode(t *testing.T) {
	c := New("words", []string{"a"}, 5, staticLoader([]string{"r"}, nil), nil)

	appendB := func(items []string) ([]string, bool) {
		return append(items, "b"), true
	}

	assert.True(t, c.Mutate(appendB))
	assert.Equal(t, []string{"a", "b"}, c.Items())
	assert.Equal(t, []string{"a"}, c.Sample(), "sample must not change")

	require.NoError(t, c.Load(context.Background(), types.SourceRemote))
	assert.False(t, c.Mutate(appendB))
	assert.Equal(t, []string{"r"}, c.Items())
}

func TestItemsReturnsCopy(t *testing.T) {
	c := New("words", []string{"a"}, 5, staticLoader(nil, nil), nil)

	items := c.Items()
	items[0] = "changed"

	assert.Equal(t, []string{"a"}, c.Items())
}
