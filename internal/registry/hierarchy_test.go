package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

func acct(id, code, parentID string) model.Account {
	return model.Account{ID: id, Code: code, Name: code, Type: model.AccountTypeAsset, ParentID: parentID}
}

func TestBuildHierarchy(t *testing.T) {
	accounts := []model.Account{
		acct("c", "1120", "b"),
		acct("a", "1000", ""),
		acct("b", "1100", "a"),
		acct("d", "1110", "b"),
		acct("e", "2000", ""),
	}

	tree := BuildHierarchy(accounts)
	require.Len(t, tree, 2)

	assert.Equal(t, "1000", tree[0].Account.Code)
	assert.Equal(t, 0, tree[0].Level)
	assert.Equal(t, "2000", tree[1].Account.Code)

	require.Len(t, tree[0].Children, 1)
	current := tree[0].Children[0]
	assert.Equal(t, "1100", current.Account.Code)
	assert.Equal(t, 1, current.Level)

	// Children sort by code at every level.
	require.Len(t, current.Children, 2)
	assert.Equal(t, "1110", current.Children[0].Account.Code)
	assert.Equal(t, "1120", current.Children[1].Account.Code)
	assert.Equal(t, 2, current.Children[0].Level)
}

func TestBuildHierarchy_DanglingParentPromoted(t *testing.T) {
	tree := BuildHierarchy([]model.Account{acct("x", "1100", "ghost")})
	require.Len(t, tree, 1)
	assert.Equal(t, "1100", tree[0].Account.Code)
	assert.Equal(t, 0, tree[0].Level)
}

func TestBuildHierarchy_TerminatesOnMalformedData(t *testing.T) {
	// A cycle cannot be created through the registry; feed one directly to
	// prove the builder still terminates.
	accounts := []model.Account{
		acct("a", "1000", "b"),
		acct("b", "1100", "a"),
		acct("r", "9000", ""),
	}
	tree := BuildHierarchy(accounts)
	require.Len(t, tree, 1)
	assert.Equal(t, "9000", tree[0].Account.Code)
}

func TestBuildHierarchy_Empty(t *testing.T) {
	assert.Empty(t, BuildHierarchy(nil))
}
