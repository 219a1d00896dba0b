package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/core/ai"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/core/catalog"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/core/intent"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/core/session"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/core/substitution"
	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// 固定回覆
const (
	emptyMessageHint = "Please type something like 'recipe for lasagna'."
	needRecipeFirst  = "I can swap ingredients once we have a recipe. Ask for one first, e.g. 'recipe for lasagna'."
	mockReplySuffix  = "'. For now, try asking for a recipe like 'recipe for lasagna'."
)

// historyTurns 開放式聊天與再生成附帶的歷史訊息數
const historyTurns = 6

// Reply 單次對話的結果
type Reply struct {
	Text   string
	Recipe *common.Recipe
}

// Service 對話協調器
// 每個請求是一筆對會話狀態的同步交易：
// 記錄訊息 → 解析意圖 → 分派處理 → 更新會話 → 產生回覆
type Service struct {
	catalogStore *catalog.Store
	sessions     session.Store
	engine       *substitution.Engine
	resolver     *intent.Resolver
	aiService    *ai.Service
}

// NewService 創建對話協調器
func NewService(catalogStore *catalog.Store, sessions session.Store, engine *substitution.Engine, resolver *intent.Resolver, aiService *ai.Service) *Service {
	return &Service{
		catalogStore: catalogStore,
		sessions:     sessions,
		engine:       engine,
		resolver:     resolver,
		aiService:    aiService,
	}
}

// Ask 處理一則使用者訊息並回覆
// 核心不會對外拋出業務錯誤：所有失敗路徑都降級成文字回覆
func (s *Service) Ask(ctx context.Context, sessionID, message string) (*Reply, error) {
	msg := strings.TrimSpace(message)
	if msg == "" {
		// 空訊息不碰會話狀態
		return &Reply{Text: emptyMessageHint}, nil
	}

	if err := s.sessions.AppendMessage(ctx, sessionID, common.RoleUser, msg); err != nil {
		return nil, fmt.Errorf("failed to record message: %w", err)
	}

	reply, err := s.dispatch(ctx, sessionID, msg)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.AppendMessage(ctx, sessionID, common.RoleAssistant, reply.Text); err != nil {
		return nil, fmt.Errorf("failed to record reply: %w", err)
	}
	return reply, nil
}

// Reset 刪除會話
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	return s.sessions.Reset(ctx, sessionID)
}

// dispatch 先走委託模式，無法處理時退回規則模式
func (s *Service) dispatch(ctx context.Context, sessionID, msg string) (*Reply, error) {
	if s.aiService.Available() {
		history, err := s.sessions.Messages(ctx, sessionID, historyTurns)
		if err != nil {
			return nil, err
		}
		// 目前這則訊息已寫入歷史，解析器會自行附加，避免重複
		if n := len(history); n > 0 && history[n-1].Role == common.RoleUser && history[n-1].Content == msg {
			history = history[:n-1]
		}
		it := s.resolver.Resolve(ctx, msg, history)
		if it.Actionable() {
			common.LogInfo("意圖解析完成（委託模式）",
				zap.String("kind", string(it.Kind)),
			)
			return s.handleIntent(ctx, sessionID, it)
		}
	}

	// 規則模式：替換語句 → 不喜歡語句 → 食譜請求 → 自由聊天
	if it, name := intent.ResolveHeuristic(msg); it != nil {
		common.LogInfo("意圖解析完成（規則模式）",
			zap.String("kind", string(it.Kind)),
			zap.String("matcher", name),
		)
		return s.handleIntent(ctx, sessionID, it)
	}

	return s.handleChat(ctx, sessionID, msg)
}

// handleIntent 分派可處理的意圖
func (s *Service) handleIntent(ctx context.Context, sessionID string, it *intent.Intent) (*Reply, error) {
	switch it.Kind {
	case intent.KindReplace:
		return s.handleReplace(ctx, sessionID, it.Replacements)
	case intent.KindAddDislike:
		return s.handleDislikes(ctx, sessionID, it.Dislikes)
	case intent.KindGetRecipe:
		return s.handleGetRecipe(ctx, sessionID, it.RecipeName)
	default:
		return &Reply{Text: emptyMessageHint}, nil
	}
}

// handleReplace 處理替換請求
// 沒有目前食譜時只回引導語，不做任何會話變更
func (s *Service) handleReplace(ctx context.Context, sessionID string, replacements []intent.Replacement) (*Reply, error) {
	current, err := s.sessions.CurrentRecipe(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return &Reply{Text: needRecipeFirst}, nil
	}

	// 每個替換來源都是新的不喜歡食材
	for _, r := range replacements {
		if err := s.sessions.AddDislike(ctx, sessionID, r.Src); err != nil {
			return nil, err
		}
	}
	dislikes, err := s.sessions.Dislikes(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	updated, degraded := s.rebuildRecipe(ctx, sessionID, current, dislikes, replacements)
	if err := s.sessions.SetCurrentRecipe(ctx, sessionID, updated); err != nil {
		return nil, err
	}

	parts := make([]string, 0, len(replacements))
	for _, r := range replacements {
		parts = append(parts, fmt.Sprintf("%s with %s", r.Src, r.Dst))
	}
	text := fmt.Sprintf("Done! I replaced %s in %s.", strings.Join(parts, " and "), updated.Name)
	if degraded != "" {
		text += " " + degraded
	}
	return &Reply{Text: text, Recipe: updated}, nil
}

// handleDislikes 處理不喜歡/過敏/缺少食材
func (s *Service) handleDislikes(ctx context.Context, sessionID string, terms []string) (*Reply, error) {
	for _, t := range terms {
		if err := s.sessions.AddDislike(ctx, sessionID, t); err != nil {
			return nil, err
		}
	}
	quoted := fmt.Sprintf("'%s'", strings.Join(terms, "', '"))

	current, err := s.sessions.CurrentRecipe(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return &Reply{Text: fmt.Sprintf("Got it. I'll keep %s in mind for substitutions.", quoted)}, nil
	}

	dislikes, err := s.sessions.Dislikes(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	updated, degraded := s.rebuildRecipe(ctx, sessionID, current, dislikes, nil)
	if err := s.sessions.SetCurrentRecipe(ctx, sessionID, updated); err != nil {
		return nil, err
	}

	text := fmt.Sprintf("Updated the current recipe to avoid %s.", quoted)
	if degraded != "" {
		text += " " + degraded
	}
	return &Reply{Text: text, Recipe: updated}, nil
}

// handleGetRecipe 處理依名稱請求食譜
func (s *Service) handleGetRecipe(ctx context.Context, sessionID, name string) (*Reply, error) {
	dislikes, err := s.sessions.Dislikes(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// 委託模式：讓模型直接生成符合偏好的食譜
	if s.aiService.Available() {
		history, err := s.sessions.Messages(ctx, sessionID, historyTurns)
		if err != nil {
			return nil, err
		}
		if recipe := s.generateRecipe(ctx, name, dislikes, history); recipe != nil {
			if err := s.sessions.SetCurrentRecipe(ctx, sessionID, recipe); err != nil {
				return nil, err
			}
			return &Reply{
				Text:   fmt.Sprintf("Here's a recipe for %s. Let me know dislikes!", recipe.Name),
				Recipe: recipe,
			}, nil
		}
		// 模型失敗時退回本地資料
	}

	found, err := s.catalogStore.FindByName(name)
	if err != nil {
		hint := "Try another name?"
		if !s.aiService.Available() {
			hint = "Try another name, or configure OPENROUTER_API_KEY for recipes beyond the local catalog."
		}
		return &Reply{Text: fmt.Sprintf("I couldn't find a recipe for '%s'. %s", name, hint)}, nil
	}

	adjusted := s.engine.Apply(ctx, found, dislikes)
	if err := s.sessions.SetCurrentRecipe(ctx, sessionID, adjusted); err != nil {
		return nil, err
	}
	return &Reply{
		Text:   fmt.Sprintf("Here's a recipe for %s. Let me know dislikes!", adjusted.Name),
		Recipe: adjusted,
	}, nil
}

// handleChat 自由聊天：轉給生成式模型，未配置時回固定的模擬回覆
// 不碰會話的食譜狀態
func (s *Service) handleChat(ctx context.Context, sessionID, msg string) (*Reply, error) {
	if s.aiService.Available() {
		history, err := s.sessions.Messages(ctx, sessionID, historyTurns)
		if err != nil {
			return nil, err
		}
		msgs := make([]common.ChatMessage, 0, len(history)+1)
		msgs = append(msgs, common.ChatMessage{
			Role:    common.RoleSystem,
			Content: "You are a friendly cooking assistant. Keep answers short and food-related.",
		})
		msgs = append(msgs, history...)

		result := s.aiService.Complete(ctx, msgs)
		if result.Status == ai.StatusOK {
			return &Reply{Text: result.Content}, nil
		}
		return &Reply{Text: "I couldn't reach the cooking brain just now. Please try again in a moment."}, nil
	}

	// 以 rune 截斷，避免切在多位元組字元中間
	truncated := msg
	if runes := []rune(msg); len(runes) > 160 {
		truncated = string(runes[:160])
	}
	return &Reply{Text: "[Mock LLM] I understood your request: '" + truncated + mockReplySuffix}, nil
}

// rebuildRecipe 依最新的偏好重建目前食譜
// 模型可用時請模型再生成，失敗或未配置時退回字典替換；
// 第二個回傳值是降級說明，成功路徑為空字串
func (s *Service) rebuildRecipe(ctx context.Context, sessionID string, current *common.Recipe, dislikes []string, replacements []intent.Replacement) (*common.Recipe, string) {
	// 使用者明講的替換目標優先於替換表
	preferred := make(map[string]string, len(replacements))
	for _, r := range replacements {
		preferred[strings.ToLower(strings.TrimSpace(r.Src))] = r.Dst
	}

	if s.aiService.Available() {
		history, err := s.sessions.Messages(ctx, sessionID, historyTurns)
		if err == nil {
			if recipe := s.regenerateRecipe(ctx, current, dislikes, replacements, history); recipe != nil {
				return recipe, ""
			}
		}
		// 模型失敗：退回字典替換並說明
		return s.engine.ApplyWithPreferred(ctx, current, dislikes, preferred), "(I used my local substitution table; the generative model was unavailable.)"
	}
	return s.engine.ApplyWithPreferred(ctx, current, dislikes, preferred), ""
}

// generateRecipe 請模型生成全新食譜
func (s *Service) generateRecipe(ctx context.Context, name string, dislikes []string, history []common.ChatMessage) *common.Recipe {
	prompt := fmt.Sprintf(
		"Write a home-friendly recipe for %s. Do not use any of these ingredients: %s. "+
			"Return ONLY compact JSON: {\"name\": string, \"ingredients\": [{\"name\": string, \"quantity\": string}], \"steps\": [string]}. "+
			"All fields must use double quotes. No markdown, no commentary.",
		name, common.FormatDislikes(dislikes))

	return s.completeRecipe(ctx, prompt, history)
}

// regenerateRecipe 請模型依最新偏好改寫現有食譜
func (s *Service) regenerateRecipe(ctx context.Context, current *common.Recipe, dislikes []string, replacements []intent.Replacement, history []common.ChatMessage) *common.Recipe {
	var sb strings.Builder
	sb.WriteString("Rewrite the following recipe so that it avoids the listed ingredients.\n")
	sb.WriteString("Recipe:\n")
	sb.WriteString(common.FormatRecipe(current))
	sb.WriteString(fmt.Sprintf("Avoid: %s.\n", common.FormatDislikes(dislikes)))
	for _, r := range replacements {
		sb.WriteString(fmt.Sprintf("Use %s instead of %s.\n", r.Dst, r.Src))
	}
	sb.WriteString("Keep the dish recognizable. Return ONLY compact JSON: " +
		"{\"name\": string, \"ingredients\": [{\"name\": string, \"quantity\": string}], \"steps\": [string]}. " +
		"All fields must use double quotes. No markdown, no commentary.")

	return s.completeRecipe(ctx, sb.String(), history)
}

// completeRecipe 調用模型並把回應解析成標準食譜，失敗回傳 nil
func (s *Service) completeRecipe(ctx context.Context, prompt string, history []common.ChatMessage) *common.Recipe {
	msgs := make([]common.ChatMessage, 0, len(history)+1)
	msgs = append(msgs, history...)
	msgs = append(msgs, common.ChatMessage{Role: common.RoleUser, Content: prompt})

	result := s.aiService.Complete(ctx, msgs)
	if result.Status == ai.StatusOK {
		// 模型有回應但內容不能用時收斂成降級結果
		recipe, err := parseRecipeContent(result.Content)
		if err != nil {
			result = ai.Degraded(err.Error())
		} else if len(recipe.Ingredients) == 0 && len(recipe.Steps) == 0 {
			result = ai.Degraded("recipe response has no ingredients or steps")
		} else {
			return recipe
		}
	}

	common.LogWarn("食譜生成失敗",
		zap.Stringer("status", result.Status),
		zap.String("reason", result.Reason),
	)
	return nil
}
