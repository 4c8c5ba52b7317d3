package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRules_ConnectIdempotent(t *testing.T) {
	c := newTestCanvas(t, codeNode("n1", "a.js"), codeNode("n2", "b.js"))
	rules := NewRules(c)

	first := rules.ConnectRole("n1", "n2", RoleImports)
	require.NotNil(t, first)
	// Identical tuple a second time leaves the set unchanged
	assert.Nil(t, rules.ConnectRole("n1", "n2", RoleImports))
	assert.Len(t, c.Connections, 1)
}

func TestRules_SingularInputRejectsSecond(t *testing.T) {
	c := newTestCanvas(t,
		codeNode("a", "a.js"),
		codeNode("b", "b.js"),
		&Node{ID: "p", Kind: KindPreview},
	)
	rules := NewRules(c)

	require.NotNil(t, rules.ConnectRole("a", "p", RoleDOM))
	assert.Nil(t, rules.ConnectRole("b", "p", RoleDOM))

	require.Len(t, c.Connections, 1)
	assert.Equal(t, "a", c.Connections[0].SourceNodeID)
}

func TestRules_ConnectRejectsDeadEndpoints(t *testing.T) {
	c := newTestCanvas(t, codeNode("n1", "a.js"))
	rules := NewRules(c)

	assert.Nil(t, rules.ConnectRole("n1", "ghost", RoleImports))
	assert.Nil(t, rules.ConnectRole("ghost", "n1", RoleImports))
	assert.Nil(t, rules.Connect(nil))
	assert.Empty(t, c.Connections)
}

func TestRules_DisconnectByIDOrPort(t *testing.T) {
	c := newTestCanvas(t, codeNode("n1", "a.js"), codeNode("n2", "b.js"), codeNode("n3", "c.js"))
	rules := NewRules(c)
	conn := rules.ConnectRole("n1", "n2", RoleImports)
	require.NotNil(t, conn)
	require.NotNil(t, rules.ConnectRole("n3", "n2", RoleImports))

	assert.Equal(t, 1, rules.Disconnect(conn.ID))
	assert.Len(t, c.Connections, 1)

	// Port-id match removes every touching connection
	assert.Equal(t, 1, rules.Disconnect(PortID("n2", RoleImports)))
	assert.Empty(t, c.Connections)
}

func TestRules_AttachToFolderMoveSemantics(t *testing.T) {
	c := newTestCanvas(t,
		codeNode("f", "a.js"),
		&Node{ID: "lib", Kind: KindFolder, Title: "lib"},
		&Node{ID: "src", Kind: KindFolder, Title: "src"},
		&Node{ID: "p", Kind: KindPreview},
	)
	rules := NewRules(c)
	// Feeds edge must survive folder rewiring
	require.NotNil(t, rules.ConnectRole("f", "p", RoleDOM))

	_, err := rules.AttachToFolder("f", "lib")
	require.NoError(t, err)
	parent, ok := rules.FolderParent("f")
	require.True(t, ok)
	assert.Equal(t, "lib", parent.ID)

	_, err = rules.AttachToFolder("f", "src")
	require.NoError(t, err)
	parent, ok = rules.FolderParent("f")
	require.True(t, ok)
	assert.Equal(t, "src", parent.ID)

	// One folder parent plus the preserved preview edge
	require.Len(t, c.Connections, 2)
	assert.NotEmpty(t, c.ConnectionsInto("p", RoleDOM))
}

func TestRules_AttachToFolderErrors(t *testing.T) {
	c := newTestCanvas(t,
		codeNode("f", "a.js"),
		codeNode("other", "b.js"),
		&Node{ID: "chat", Kind: KindAiChat, Title: "chat"},
	)
	rules := NewRules(c)

	_, err := rules.AttachToFolder("f", "other")
	assert.ErrorIs(t, err, ErrNotAFolder)
	_, err = rules.AttachToFolder("chat", "other")
	assert.ErrorIs(t, err, ErrNotAFile)
	_, err = rules.AttachToFolder("ghost", "other")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestRules_DetachStructuralKeepsFeeds(t *testing.T) {
	c := newTestCanvas(t,
		&Node{ID: "img", Kind: KindImage, Title: "pic.png"},
		codeNode("app", "app.js"),
		&Node{ID: "lib", Kind: KindFolder, Title: "lib"},
		&Node{ID: "p", Kind: KindPreview},
		&Node{ID: "term", Kind: KindTerminal},
	)
	rules := NewRules(c)
	require.NotNil(t, rules.ConnectRole("img", "app", RoleImports))
	require.NotNil(t, rules.ConnectRole("img", "lib", RoleFiles))
	require.NotNil(t, rules.ConnectRole("img", "p", RoleDOM))
	require.NotNil(t, rules.ConnectRole("img", "term", RoleSource))

	removed := rules.DetachStructural("img")

	assert.Equal(t, 2, removed)
	require.Len(t, c.Connections, 2)
	for _, conn := range c.Connections {
		target, ok := c.Node(conn.TargetNodeID)
		require.True(t, ok)
		assert.Contains(t, []NodeKind{KindPreview, KindTerminal}, target.Kind)
	}
}
