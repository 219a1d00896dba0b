package conversation

import (
	"fmt"
	"strings"

	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/pkg/common"
)

// fallbackRecipeName 模型忘記給名稱時的補位字串
const fallbackRecipeName = "recipe"

// parseRecipeContent 把模型回應文字解析成標準食譜
func parseRecipeContent(content string) (*common.Recipe, error) {
	var raw map[string]interface{}
	if err := common.ParseJSON(common.ExtractJSONObject(content), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse recipe JSON: %w", err)
	}
	return normalizeRecipe(raw), nil
}

// normalizeRecipe 把食譜形狀的資料收斂成標準結構
// 容忍食材以純字串或不同鍵名（ingredient/item、qty）出現，
// 步驟以換行分隔的單一字串出現，缺名稱時補上佔位字串
func normalizeRecipe(raw map[string]interface{}) *common.Recipe {
	out := &common.Recipe{Name: fallbackRecipeName}

	if s, ok := raw["name"].(string); ok {
		if name := strings.TrimSpace(s); name != "" {
			out.Name = name
		}
	}

	if list, ok := raw["ingredients"].([]interface{}); ok {
		for _, item := range list {
			switch v := item.(type) {
			case string:
				if name := strings.TrimSpace(v); name != "" {
					out.Ingredients = append(out.Ingredients, common.Ingredient{Name: name})
				}
			case map[string]interface{}:
				name := firstString(v, "name", "ingredient", "item")
				if name == "" {
					name = "ingredient"
				}
				out.Ingredients = append(out.Ingredients, common.Ingredient{
					Name:     name,
					Quantity: firstString(v, "quantity", "qty"),
				})
			}
		}
	}

	switch steps := raw["steps"].(type) {
	case string:
		for _, line := range strings.Split(steps, "\n") {
			if s := strings.TrimSpace(line); s != "" {
				out.Steps = append(out.Steps, s)
			}
		}
	case []interface{}:
		for _, item := range steps {
			if s, ok := item.(string); ok {
				if v := strings.TrimSpace(s); v != "" {
					out.Steps = append(out.Steps, v)
				}
			}
		}
	}

	return out
}

// firstString 依序取出第一個非空的字串欄位
func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			if v := strings.TrimSpace(s); v != "" {
				return v
			}
		}
	}
	return ""
}
