package locator

import (
	"errors"
	"testing"
	"time"

	"gsbatch/internal/browser"
	"gsbatch/internal/browser/browsertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCoversEveryRole(t *testing.T) {
	reg := NewRegistry(0)
	for _, role := range AllRoles() {
		s, ok := reg.Strategy(role)
		assert.True(t, ok, "missing strategy for %s", role)
		assert.NotEmpty(t, s.Value, "empty selector for %s", role)
	}
}

func TestStructuralSelectorsPreferred(t *testing.T) {
	reg := NewRegistry(0)

	// Form fields resolve by name attribute, not page text.
	s, ok := reg.Strategy(RoleTitleField)
	require.True(t, ok)
	assert.Equal(t, browser.ByName, s.Kind)
	assert.Equal(t, "assignment[title]", s.Value)

	// The assignment type tile has no stable attribute, so it is the
	// one role allowed to match on its label.
	s, ok = reg.Strategy(RoleOnlineAssignmentType)
	require.True(t, ok)
	assert.Equal(t, browser.ByLabel, s.Kind)
	assert.Equal(t, "Online Assignment", s.Label)
}

func TestResolve(t *testing.T) {
	reg := NewRegistry(50 * time.Millisecond)
	page := browsertest.NewPage()

	title := browsertest.NewElement("title", page.Rec)
	s, _ := reg.Strategy(RoleTitleField)
	page.Stub(s, title)

	el, err := reg.Resolve(page, RoleTitleField)
	require.NoError(t, err)
	assert.Same(t, title, el)

	// The registry wait bounds the underlying find.
	require.Len(t, page.FindTimeouts, 1)
	assert.Equal(t, 50*time.Millisecond, page.FindTimeouts[0])
}

func TestResolveNotFound(t *testing.T) {
	reg := NewRegistry(time.Millisecond)
	page := browsertest.NewPage()

	_, err := reg.Resolve(page, RoleSaveButton)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "save_button")
}

func TestOverride(t *testing.T) {
	reg := NewRegistry(0)
	reg.Override(RoleSaveButton, browser.CSS(".js-save"))

	s, ok := reg.Strategy(RoleSaveButton)
	require.True(t, ok)
	assert.Equal(t, browser.ByCSS, s.Kind)
	assert.Equal(t, ".js-save", s.Value)
}

func TestDefaultWaitApplied(t *testing.T) {
	assert.Equal(t, DefaultWait, NewRegistry(0).Wait())
	assert.Equal(t, DefaultWait, NewRegistry(-time.Second).Wait())
	assert.Equal(t, time.Second, NewRegistry(time.Second).Wait())
}
