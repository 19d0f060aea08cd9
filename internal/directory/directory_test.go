package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studiowebux/shopdemo/internal/types"
)

type fakeFetcher struct {
	users []types.User
	err   error
}

func (f *fakeFetcher) FetchUsers(ctx context.Context, limit, skip int) (*types.UserPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &types.UserPage{Users: f.users, Total: len(f.users), Limit: limit}, nil
}

var remoteUsers = []types.User{
	{ID: 1, FirstName: "Emily", LastName: "Johnson", Gender: types.GenderFemale, Email: "emily.johnson@x.dummyjson.com"},
	{ID: 2, FirstName: "Michael", LastName: "Williams", Gender: types.GenderMale, Email: "michael.williams@x.dummyjson.com"},
	{ID: 3, FirstName: "Sophia", LastName: "Brown", Gender: types.GenderFemale, Email: "sophia.brown@x.dummyjson.com"},
}

func names(users []types.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.FullName()
	}
	return out
}

func TestComputeVisible_NoFilterReturnsAll(t *testing.T) {
	for _, users := range [][]types.User{Sample, remoteUsers, {}} {
		assert.Equal(t, users, ComputeVisible(users, "", types.GenderAll))
	}
}

func TestComputeVisible_SampleScenarios(t *testing.T) {
	assert.Equal(t, []string{"Maria Santos"}, names(ComputeVisible(Sample, "maria", types.GenderAll)))
	assert.Equal(t, []string{"João Silva"}, names(ComputeVisible(Sample, "", "male")))
	assert.Equal(t, []string{"Maria Santos"}, names(ComputeVisible(Sample, "", "female")))
}

func TestComputeVisible_MatchesNameOrEmail(t *testing.T) {
	cases := []struct {
		term   string
		gender string
		want   []string
	}{
		{"JOHNSON", "all", []string{"Emily Johnson"}},
		{"ly joh", "all", []string{"Emily Johnson"}},
		{"williams@", "all", []string{"Michael Williams"}},
		{"dummyjson", "female", []string{"Emily Johnson", "Sophia Brown"}},
		{"dummyjson", "male", []string{"Michael Williams"}},
		{"zzz", "all", []string{}},
		{"", "other", []string{}},
	}

	for _, tc := range cases {
		got := names(ComputeVisible(remoteUsers, tc.term, tc.gender))
		assert.Equal(t, tc.want, got, "term=%q gender=%q", tc.term, tc.gender)
	}
}

func TestComputeVisible_UnicodeCaseFolding(t *testing.T) {
	assert.Equal(t, []string{"João Silva"}, names(ComputeVisible(Sample, "JOÃO", "")))
}

func TestComputeVisible_Idempotent(t *testing.T) {
	for _, term := range []string{"", "a", "santos", "EMAIL.COM"} {
		for _, gender := range []string{"all", "male", "female"} {
			once := ComputeVisible(Sample, term, gender)
			twice := ComputeVisible(once, term, gender)
			assert.Equal(t, once, twice, "term=%q gender=%q", term, gender)
		}
	}
}

func TestApplyFilter_StoresInputs(t *testing.T) {
	c := New(&fakeFetcher{}, 6, nil)

	visible := c.ApplyFilter("maria", "all")
	assert.Equal(t, []string{"Maria Santos"}, names(visible))

	term, gender := c.Filter()
	assert.Equal(t, "maria", term)
	assert.Equal(t, "all", gender)

	c.SetSearch("")
	c.SetGender("male")
	assert.Equal(t, []string{"João Silva"}, names(c.Visible()))
}

func TestVisible_RecomputesOnCollectionChange(t *testing.T) {
	c := New(&fakeFetcher{users: remoteUsers}, 6, nil)
	c.SetGender("female")
	assert.Len(t, c.Visible(), 1)

	require.NoError(t, c.Load(context.Background(), types.SourceRemote))
	assert.Equal(t, []string{"Emily Johnson", "Sophia Brown"}, names(c.Visible()))
}

func TestAddUser_AppendsWithDefaults(t *testing.T) {
	c := New(&fakeFetcher{}, 6, nil)
	before := c.Len()

	u, ok := c.AddUser(Draft{FirstName: "Ana", LastName: "Lima", Email: "ana@x.com"})
	require.True(t, ok)

	assert.Equal(t, before+1, c.Len())
	assert.Equal(t, 25, u.Age)
	assert.Equal(t, types.GenderMale, u.Gender)
	assert.Equal(t, "ana", u.Username)
	assert.Equal(t, "", u.Phone)
	assert.Equal(t, "1998-01-01", u.BirthDate)
	assert.Equal(t, DefaultAddress, u.Address)
	assert.Equal(t, before+1, u.ID)

	items := c.Items()
	assert.Equal(t, u, items[len(items)-1])
}

func TestAddUser_RequiresAllFields(t *testing.T) {
	c := New(&fakeFetcher{}, 6, nil)
	before := c.Items()

	drafts := []Draft{
		{FirstName: "", LastName: "Lima", Email: "ana@x.com"},
		{FirstName: "Ana", LastName: "", Email: "ana@x.com"},
		{FirstName: "Ana", LastName: "Lima", Email: ""},
	}
	for _, d := range drafts {
		_, ok := c.AddUser(d)
		assert.False(t, ok, "draft %+v", d)
	}
	assert.Equal(t, before, c.Items())
}

func TestAddUser_StoresFieldsAsTyped(t *testing.T) {
	c := New(&fakeFetcher{}, 6, nil)

	u, ok := c.AddUser(Draft{FirstName: " ", LastName: "Lima ", Email: " ana@x.com"})
	require.True(t, ok)
	assert.Equal(t, " ", u.FirstName)
	assert.Equal(t, "Lima ", u.LastName)
	assert.Equal(t, " ana@x.com", u.Email)
	assert.Equal(t, " ", u.Username)
}

func TestAddUser_FilterAppliesToNewRecord(t *testing.T) {
	c := New(&fakeFetcher{}, 6, nil)
	c.ApplyFilter("", "female")

	_, ok := c.AddUser(Draft{FirstName: "Ana", LastName: "Lima", Email: "ana@x.com"})
	require.True(t, ok)

	// created records default to male, so the female view is unchanged
	assert.Equal(t, []string{"Maria Santos"}, names(c.Visible()))
}

func TestAddUser_IdCollidesAfterRemoval(t *testing.T) {
	c := New(&fakeFetcher{}, 6, nil)

	require.True(t, c.RemoveUser(1))
	u, ok := c.AddUser(Draft{FirstName: "Ana", LastName: "Lima", Email: "ana@x.com"})
	require.True(t, ok)

	assert.Equal(t, 2, u.ID, "len+1 reuses Maria's id")
}

func TestRemoveUser(t *testing.T) {
	c := New(&fakeFetcher{}, 6, nil)
	c.ApplyFilter("silva", "all")

	assert.True(t, c.RemoveUser(1))
	assert.Equal(t, 1, c.Len())
	assert.Empty(t, c.Visible())

	assert.False(t, c.RemoveUser(42))
	assert.Equal(t, 1, c.Len())
}

func TestMutationsIgnoredInRemoteMode(t *testing.T) {
	c := New(&fakeFetcher{users: remoteUsers}, 6, nil)
	require.NoError(t, c.Load(context.Background(), types.SourceRemote))

	_, ok := c.AddUser(Draft{FirstName: "Ana", LastName: "Lima", Email: "ana@x.com"})
	assert.False(t, ok)
	assert.False(t, c.RemoveUser(1))
	assert.Equal(t, remoteUsers, c.Items())
}

func TestLocalEditsDiscardedBySourceSwitch(t *testing.T) {
	c := New(&fakeFetcher{users: remoteUsers}, 6, nil)
	_, _ = c.AddUser(Draft{FirstName: "Ana", LastName: "Lima", Email: "ana@x.com"})

	require.NoError(t, c.Load(context.Background(), types.SourceRemote))
	require.NoError(t, c.Load(context.Background(), types.SourceLocal))

	assert.Equal(t, Sample, c.Items())
}

func TestRemoteFailureKeepsUsers(t *testing.T) {
	c := New(&fakeFetcher{err: errors.New("offline")}, 6, nil)

	assert.Error(t, c.Load(context.Background(), types.SourceRemote))
	assert.Equal(t, Sample, c.Items())
	assert.False(t, c.Busy())
}

func TestNextGender(t *testing.T) {
	assert.Equal(t, "male", NextGender("all"))
	assert.Equal(t, "female", NextGender("male"))
	assert.Equal(t, "all", NextGender("female"))
	assert.Equal(t, "male", NextGender(""))
}
