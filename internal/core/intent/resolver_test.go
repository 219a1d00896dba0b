package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceIntentValid(t *testing.T) {
	it := coerceIntent(`{"intent": "get_recipe", "recipe_name": "Lasagna", "dislikes": [], "replacements": []}`)
	assert.Equal(t, KindGetRecipe, it.Kind)
	assert.Equal(t, "Lasagna", it.RecipeName)
	assert.Empty(t, it.Dislikes)
	assert.Empty(t, it.Replacements)
}

func TestCoerceIntentFencedJSON(t *testing.T) {
	content := "```json\n{\"intent\": \"add_dislike\", \"dislikes\": [\"Mushrooms\", \" CHEESE \"]}\n```"
	it := coerceIntent(content)
	assert.Equal(t, KindAddDislike, it.Kind)
	assert.Equal(t, []string{"mushrooms", "cheese"}, it.Dislikes)
}

func TestCoerceIntentSurroundingProse(t *testing.T) {
	content := `Sure! Here is the intent: {"intent": "replace", "replacements": [{"src": "milk", "dst": "oat milk"}]} Hope that helps.`
	it := coerceIntent(content)
	assert.Equal(t, KindReplace, it.Kind)
	require.Len(t, it.Replacements, 1)
	assert.Equal(t, Replacement{Src: "milk", Dst: "oat milk"}, it.Replacements[0])
}

func TestCoerceIntentFromToAliases(t *testing.T) {
	it := coerceIntent(`{"intent": "replace", "replacements": [{"from": "beef", "to": "lentils"}]}`)
	require.Len(t, it.Replacements, 1)
	assert.Equal(t, Replacement{Src: "beef", Dst: "lentils"}, it.Replacements[0])
}

func TestCoerceIntentDropsIncompleteReplacements(t *testing.T) {
	it := coerceIntent(`{"intent": "replace", "replacements": [{"src": "milk"}, {"dst": "tofu"}, {"src": "egg", "dst": "flax egg"}, "not an object"]}`)
	require.Len(t, it.Replacements, 1)
	assert.Equal(t, Replacement{Src: "egg", Dst: "flax egg"}, it.Replacements[0])
}

func TestCoerceIntentUnknownKind(t *testing.T) {
	it := coerceIntent(`{"intent": "order_pizza"}`)
	assert.Equal(t, KindUnknown, it.Kind)
}

func TestCoerceIntentMalformed(t *testing.T) {
	for _, content := range []string{"", "not json at all", `{"intent": 42}`, `[1,2,3]`} {
		it := coerceIntent(content)
		assert.Equal(t, KindUnknown, it.Kind, "content: %q", content)
		assert.False(t, it.Actionable())
	}
}

func TestCoerceIntentNonStringDislikesSkipped(t *testing.T) {
	it := coerceIntent(`{"intent": "add_dislike", "dislikes": ["milk", 3, null, ""]}`)
	assert.Equal(t, []string{"milk"}, it.Dislikes)
}
