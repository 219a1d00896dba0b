package substitution

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/core/ai"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// substitutions 常見食材替換表，每個鍵對應排序過的候選清單
var substitutions = map[string][]string{
	"mushroom": {"zucchini", "eggplant", "bell pepper"},
	"milk":     {"oat milk", "almond milk", "soy milk"},
	"butter":   {"olive oil", "coconut oil"},
	"egg":      {"flax egg", "chia egg", "applesauce"},
	"cheese":   {"nutritional yeast", "vegan cheese"},
	"beef":     {"lentils", "mushrooms", "tofu"},
	"chicken":  {"tofu", "tempeh", "jackfruit"},
	"pork":     {"jackfruit", "seitan"},
	"cream":    {"coconut cream", "cashew cream"},
}

// genericSuggestion 本地模式下查無資料時的通用回覆
const genericSuggestion = "Try a similar vegetable or plant-based alternative."

// sortedKeys 替換表鍵的排序快照，讓子字串比對順序固定
var sortedKeys = func() []string {
	keys := make([]string, 0, len(substitutions))
	for k := range substitutions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

// Engine 食材替換引擎
type Engine struct {
	aiService *ai.Service
}

// NewEngine 創建食材替換引擎
// aiService 未配置時查無資料的食材回傳通用建議
func NewEngine(aiService *ai.Service) *Engine {
	return &Engine{
		aiService: aiService,
	}
}

// Suggest 建議某食材的替換品
// 先做精確比對，再做表鍵為輸入子字串的比對（如 "button mushrooms"），
// 最後才委託生成式模型
func (e *Engine) Suggest(ctx context.Context, ingredient string) []string {
	key := strings.ToLower(strings.TrimSpace(ingredient))

	if subs, ok := substitutions[key]; ok {
		return append([]string(nil), subs...)
	}

	for _, k := range sortedKeys {
		if strings.Contains(key, k) {
			return append([]string(nil), substitutions[k]...)
		}
	}

	if e.aiService.Available() {
		prompt := fmt.Sprintf("Suggest simple home-friendly substitutes for %s. Answer with a short ingredient name only.", ingredient)
		result := e.aiService.CompletePrompt(ctx, prompt)
		if result.Status == ai.StatusOK {
			return []string{strings.TrimSpace(result.Content)}
		}
		common.LogWarn("替換建議模型調用失敗，回傳通用建議",
			zap.String("ingredient", ingredient),
			zap.String("reason", result.Reason),
		)
	}

	return []string{genericSuggestion}
}
