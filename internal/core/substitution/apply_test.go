package substitution

import (
	"context"
	"testing"

	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyReplacesIngredientsAndSteps(t *testing.T) {
	engine := NewEngine(nil)
	recipe := &common.Recipe{
		Name: "Lasagna",
		Ingredients: []common.Ingredient{
			{Name: "ricotta cheese", Quantity: "250 g"},
			{Name: "tomato sauce", Quantity: "400 ml"},
		},
		Steps: []string{
			"Spread the ricotta cheese between the layers.",
			"Bake until golden.",
		},
	}

	out := engine.Apply(context.Background(), recipe, []string{"cheese"})
	require.NotNil(t, out)

	assert.Equal(t, "ricotta nutritional yeast", out.Ingredients[0].Name)
	assert.Equal(t, "250 g", out.Ingredients[0].Quantity)
	assert.Equal(t, "tomato sauce", out.Ingredients[1].Name)
	assert.Equal(t, "Spread the ricotta nutritional yeast between the layers.", out.Steps[0])
	assert.Equal(t, "Bake until golden.", out.Steps[1])

	// 原食譜不受影響
	assert.Equal(t, "ricotta cheese", recipe.Ingredients[0].Name)
}

func TestApplyIsCaseInsensitive(t *testing.T) {
	engine := NewEngine(nil)
	recipe := &common.Recipe{
		Name:        "Omelette",
		Ingredients: []common.Ingredient{{Name: "Eggs", Quantity: "3"}},
		Steps:       []string{"Whisk the EGGS until frothy."},
	}

	out := engine.Apply(context.Background(), recipe, []string{"Egg"})

	assert.Equal(t, "flax eggs", out.Ingredients[0].Name)
	assert.Equal(t, "Whisk the flax eggS until frothy.", out.Steps[0])
}

func TestApplySimultaneousSubstitution(t *testing.T) {
	// 替換後的文字不能再被其他不喜歡的詞二次替換：
	// beef → lentils、mushroom → zucchini，
	// beef 的替換結果不會因為後續比對而改變
	engine := NewEngine(nil)
	recipe := &common.Recipe{
		Name:        "Beef Stroganoff",
		Ingredients: []common.Ingredient{{Name: "beef"}, {Name: "mushroom"}},
		Steps:       []string{"Brown the beef, then add the mushroom."},
	}

	out := engine.Apply(context.Background(), recipe, []string{"beef", "mushroom"})

	assert.Equal(t, "lentils", out.Ingredients[0].Name)
	assert.Equal(t, "zucchini", out.Ingredients[1].Name)
	assert.Equal(t, "Brown the lentils, then add the zucchini.", out.Steps[0])
}

func TestApplyOverlappingTermsEarlierWins(t *testing.T) {
	engine := NewEngine(nil)
	recipe := &common.Recipe{
		Name:  "Test",
		Steps: []string{"add cream cheese"},
	}

	// cream 與 cheese 的比對區間相鄰不重疊，各自替換
	out := engine.Apply(context.Background(), recipe, []string{"cream", "cheese"})
	assert.Equal(t, "add coconut cream nutritional yeast", out.Steps[0])
}

func TestApplyWithPreferredOverridesDictionary(t *testing.T) {
	engine := NewEngine(nil)
	recipe := &common.Recipe{
		Name: "Pancakes",
		Ingredients: []common.Ingredient{
			{Name: "milk", Quantity: "200 ml"},
			{Name: "butter", Quantity: "50 g"},
		},
		Steps: []string{"Whisk the milk into the batter."},
	}

	// milk 用指定目標，butter 沒指定就查替換表
	out := engine.ApplyWithPreferred(context.Background(), recipe,
		[]string{"milk", "butter"}, map[string]string{"milk": "almond milk"})

	assert.Equal(t, "almond milk", out.Ingredients[0].Name)
	assert.Equal(t, "olive oil", out.Ingredients[1].Name)
	assert.Equal(t, "Whisk the almond milk into the batter.", out.Steps[0])
}

func TestApplyNoDislikesReturnsClone(t *testing.T) {
	engine := NewEngine(nil)
	recipe := &common.Recipe{
		Name:        "Pancakes",
		Ingredients: []common.Ingredient{{Name: "flour"}},
	}

	out := engine.Apply(context.Background(), recipe, nil)
	require.NotNil(t, out)
	assert.Equal(t, recipe.Name, out.Name)

	out.Ingredients[0].Name = "changed"
	assert.Equal(t, "flour", recipe.Ingredients[0].Name)
}

func TestApplyNilRecipe(t *testing.T) {
	engine := NewEngine(nil)
	assert.Nil(t, engine.Apply(context.Background(), nil, []string{"milk"}))
}

func TestSuggestExactMatch(t *testing.T) {
	engine := NewEngine(nil)

	subs := engine.Suggest(context.Background(), "milk")
	assert.Equal(t, []string{"oat milk", "almond milk", "soy milk"}, subs)

	// 回傳的是拷貝，修改不影響替換表
	subs[0] = "changed"
	assert.Equal(t, "oat milk", engine.Suggest(context.Background(), "milk")[0])
}

func TestSuggestSubstringMatch(t *testing.T) {
	engine := NewEngine(nil)

	assert.Equal(t, []string{"zucchini", "eggplant", "bell pepper"},
		engine.Suggest(context.Background(), "button mushrooms"))
	assert.Equal(t, []string{"nutritional yeast", "vegan cheese"},
		engine.Suggest(context.Background(), "Parmesan Cheese"))
}

func TestSuggestUnknownFallsBackToGeneric(t *testing.T) {
	engine := NewEngine(nil)

	subs := engine.Suggest(context.Background(), "truffle oil")
	assert.Equal(t, []string{genericSuggestion}, subs)
}
