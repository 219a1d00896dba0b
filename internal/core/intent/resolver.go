package intent

import (
	"context"
	"strings"

	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/core/ai"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// historyTurns 委託模式附帶的歷史訊息數
const historyTurns = 6

// 委託模式的固定指令
const resolverInstruction = "You are an intent parser for a recipe assistant. Return ONLY JSON following this schema: " +
	"{intent: one of [get_recipe, add_dislike, replace, smalltalk, unknown], " +
	"recipe_name: string|null, dislikes: string[], replacements: [{src:string, dst:string}]}. " +
	"Normalize typos. If the user asks for a recipe by name, set intent=get_recipe and fill recipe_name. " +
	"If the user expresses a dislike or allergy or can't have something, set intent=add_dislike and put those terms in dislikes. " +
	"If the user requests replacements (e.g., 'replace milk with oat milk', 'use oat milk instead of milk'), set intent=replace and fill replacements. " +
	"If the message is just chit-chat, set intent=smalltalk."

// Resolver 委託生成式模型的意圖解析器
type Resolver struct {
	aiService *ai.Service
}

// NewResolver 創建意圖解析器
func NewResolver(aiService *ai.Service) *Resolver {
	return &Resolver{
		aiService: aiService,
	}
}

// Resolve 把使用者訊息解析成結構化意圖
// 模型未配置、調用失敗或回應格式錯誤時一律降級為 unknown，絕不往外拋錯
func (r *Resolver) Resolve(ctx context.Context, message string, history []common.ChatMessage) *Intent {
	message = strings.TrimSpace(message)
	if message == "" || !r.aiService.Available() {
		return Unknown()
	}

	msgs := make([]common.ChatMessage, 0, historyTurns+2)
	msgs = append(msgs, common.ChatMessage{Role: common.RoleSystem, Content: resolverInstruction})
	if len(history) > historyTurns {
		history = history[len(history)-historyTurns:]
	}
	for _, m := range history {
		if (m.Role == common.RoleUser || m.Role == common.RoleAssistant) && m.Content != "" {
			msgs = append(msgs, m)
		}
	}
	msgs = append(msgs, common.ChatMessage{Role: common.RoleUser, Content: message})

	result := r.aiService.Complete(ctx, msgs)
	if result.Status != ai.StatusOK {
		common.LogWarn("意圖解析模型調用失敗，降級為 unknown",
			zap.String("reason", result.Reason),
		)
		return Unknown()
	}

	return coerceIntent(result.Content)
}

// coerceIntent 把模型回應的 JSON 收斂成 Intent
// 欄位型別不符時逐欄降級，而不是整體失敗
func coerceIntent(content string) *Intent {
	var raw map[string]interface{}
	if err := common.ParseJSON(common.ExtractJSONObject(content), &raw); err != nil {
		common.LogDebug("意圖 JSON 解析失敗", zap.Error(err))
		return Unknown()
	}

	out := Unknown()

	if s, ok := raw["intent"].(string); ok {
		switch Kind(s) {
		case KindGetRecipe, KindAddDislike, KindReplace, KindSmalltalk, KindUnknown:
			out.Kind = Kind(s)
		}
	}

	if s, ok := raw["recipe_name"].(string); ok {
		out.RecipeName = strings.TrimSpace(s)
	}

	if list, ok := raw["dislikes"].([]interface{}); ok {
		for _, d := range list {
			if s, ok := d.(string); ok && strings.TrimSpace(s) != "" {
				out.Dislikes = append(out.Dislikes, strings.ToLower(strings.TrimSpace(s)))
			}
		}
	}

	if list, ok := raw["replacements"].([]interface{}); ok {
		for _, item := range list {
			entry, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			src := stringField(entry, "src", "from")
			dst := stringField(entry, "dst", "to")
			// 缺任一邊就丟棄
			if src == "" || dst == "" {
				continue
			}
			out.Replacements = append(out.Replacements, Replacement{Src: src, Dst: dst})
		}
	}

	return out
}

// stringField 依序取出第一個非空的字串欄位
func stringField(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			if v := strings.TrimSpace(s); v != "" {
				return v
			}
		}
	}
	return ""
}
