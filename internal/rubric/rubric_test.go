package rubric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlan(t *testing.T) {
	two := []Item{{Description: "correct", Points: 10}, {Description: "incorrect", Points: 0}}

	t.Run("empty_target_plans_nothing", func(t *testing.T) {
		assert.Empty(t, Plan(1, nil))
		assert.Empty(t, Plan(0, nil))
	})

	t.Run("default_item_is_edited_in_place", func(t *testing.T) {
		ops := Plan(1, two)
		assert.Equal(t, []Op{
			{Kind: OpEditDefault, Index: 0, Item: two[0]},
			{Kind: OpAppend, Index: 1, Item: two[1]},
		}, ops)
	})

	t.Run("n_items_means_one_edit_and_n_minus_one_appends", func(t *testing.T) {
		target := []Item{{Description: "a"}, {Description: "b"}, {Description: "c"}, {Description: "d"}}
		ops := Plan(1, target)
		assert.Len(t, ops, 4)
		assert.Equal(t, OpEditDefault, ops[0].Kind)
		for _, op := range ops[1:] {
			assert.Equal(t, OpAppend, op.Kind)
		}
	})

	t.Run("no_existing_items_appends_everything", func(t *testing.T) {
		ops := Plan(0, two)
		assert.Equal(t, OpAppend, ops[0].Kind)
		assert.Equal(t, OpAppend, ops[1].Kind)
	})

	t.Run("extra_existing_items_still_edit_only_the_first", func(t *testing.T) {
		ops := Plan(3, two)
		assert.Equal(t, OpEditDefault, ops[0].Kind)
		assert.Equal(t, OpAppend, ops[1].Kind)
	})
}

func TestCapitalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"correct", "Correct"},
		{"incorrect", "Incorrect"},
		{"ALL CAPS", "All caps"},
		{"mixed Case Text", "Mixed case text"},
		{"", ""},
		{"x", "X"},
		{"éclair", "Éclair"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, capitalize(tc.in), "capitalize(%q)", tc.in)
	}
}

func TestFormatPoints(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{10, "10"},
		{0, "0"},
		{2.5, "2.5"},
		{-1, "-1"},
		{0.125, "0.125"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatPoints(tc.in), "FormatPoints(%v)", tc.in)
	}
}

func TestLooksPlaceholder(t *testing.T) {
	assert.True(t, looksPlaceholder("Correct"))
	assert.True(t, looksPlaceholder("Incorrect"))
	assert.True(t, looksPlaceholder(""))
	assert.True(t, looksPlaceholder("short"))
	assert.False(t, looksPlaceholder("This is a full rubric description already."))
}
