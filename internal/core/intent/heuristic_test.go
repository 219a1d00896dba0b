package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveHeuristicReplacePhrase(t *testing.T) {
	it, name := ResolveHeuristic("Please replace milk with oat milk.")
	require.NotNil(t, it)
	assert.Equal(t, "replacement_phrase", name)
	assert.Equal(t, KindReplace, it.Kind)
	require.Len(t, it.Replacements, 1)
	assert.Equal(t, "milk", it.Replacements[0].Src)
	assert.Equal(t, "oat milk", it.Replacements[0].Dst)
}

func TestResolveHeuristicUseInsteadDirection(t *testing.T) {
	// "use X instead of Y"：被換掉的是 Y
	it, name := ResolveHeuristic("use tofu instead of chicken")
	require.NotNil(t, it)
	assert.Equal(t, "replacement_phrase", name)
	require.Len(t, it.Replacements, 1)
	assert.Equal(t, "chicken", it.Replacements[0].Src)
	assert.Equal(t, "tofu", it.Replacements[0].Dst)
}

func TestResolveHeuristicDislikePhrases(t *testing.T) {
	cases := []struct {
		message string
		term    string
	}{
		{"I don't like mushrooms", "mushrooms"},
		{"i do not like cilantro!", "cilantro"},
		{"we don't have eggs", "eggs"},
		{"I can't have dairy", "dairy"},
		{"my kid is allergic to peanuts", "peanuts"},
		{"no onions please", "onions please"},
		{"make it without garlic", "garlic"},
		{"please skip the olives", "the olives"},
	}

	for _, tc := range cases {
		it, name := ResolveHeuristic(tc.message)
		require.NotNil(t, it, "message: %s", tc.message)
		assert.Equal(t, "dislike_phrase", name, "message: %s", tc.message)
		assert.Equal(t, KindAddDislike, it.Kind)
		assert.Equal(t, []string{tc.term}, it.Dislikes, "message: %s", tc.message)
	}
}

func TestResolveHeuristicRecipeRequest(t *testing.T) {
	cases := []struct {
		message string
		recipe  string
	}{
		{"recipe for lasagna", "lasagna"},
		{"Can I get a recipe for chicken curry?", "chicken curry"},
		{"Give me a recipe for pancakes, please", "pancakes"},
		{"recipe pancakes", "pancakes"},
	}

	for _, tc := range cases {
		it, name := ResolveHeuristic(tc.message)
		require.NotNil(t, it, "message: %s", tc.message)
		assert.Equal(t, "recipe_request", name, "message: %s", tc.message)
		assert.Equal(t, KindGetRecipe, it.Kind)
		assert.Equal(t, tc.recipe, it.RecipeName, "message: %s", tc.message)
	}
}

func TestResolveHeuristicPriorityOrder(t *testing.T) {
	// 同一訊息同時命中替換與不喜歡語句時，替換優先
	it, name := ResolveHeuristic("I don't like milk, replace milk with oat milk")
	require.NotNil(t, it)
	assert.Equal(t, "replacement_phrase", name)
	assert.Equal(t, KindReplace, it.Kind)
}

func TestResolveHeuristicNoMatch(t *testing.T) {
	for _, msg := range []string{"hello there", "what's up?", "   ", ""} {
		it, name := ResolveHeuristic(msg)
		assert.Nil(t, it, "message: %q", msg)
		assert.Empty(t, name)
	}
}

func TestResolveHeuristicTrimsPunctuation(t *testing.T) {
	it, _ := ResolveHeuristic("I'm allergic to shellfish!!")
	require.NotNil(t, it)
	assert.Equal(t, []string{"shellfish"}, it.Dislikes)
}

func TestActionable(t *testing.T) {
	assert.True(t, (&Intent{Kind: KindGetRecipe, RecipeName: "lasagna"}).Actionable())
	assert.True(t, (&Intent{Kind: KindAddDislike, Dislikes: []string{"milk"}}).Actionable())
	assert.True(t, (&Intent{Kind: KindReplace, Replacements: []Replacement{{Src: "a", Dst: "b"}}}).Actionable())

	assert.False(t, (&Intent{Kind: KindGetRecipe}).Actionable())
	assert.False(t, (&Intent{Kind: KindAddDislike}).Actionable())
	assert.False(t, (&Intent{Kind: KindReplace}).Actionable())
	assert.False(t, (&Intent{Kind: KindSmalltalk}).Actionable())
	assert.False(t, Unknown().Actionable())
}
