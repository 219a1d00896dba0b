package common

import (
	"fmt"
	"strings"
)

// Ingredient 食材
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// Recipe 食譜
// 注意：欄位名稱、型別、巢狀結構都要與 API 回應一模一樣
type Recipe struct {
	Name        string       `json:"name"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
}

// Clone 回傳食譜的深拷貝，呼叫端可安全修改
func (r *Recipe) Clone() *Recipe {
	if r == nil {
		return nil
	}
	clone := &Recipe{
		Name:        r.Name,
		Ingredients: make([]Ingredient, len(r.Ingredients)),
		Steps:       make([]string, len(r.Steps)),
	}
	copy(clone.Ingredients, r.Ingredients)
	copy(clone.Steps, r.Steps)
	return clone
}

// ChatMessage 對話訊息
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// 對話角色
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// FormatRecipe 將食譜格式化為提示詞用的純文字
func FormatRecipe(r *Recipe) string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name: %s\n", r.Name))
	sb.WriteString("Ingredients:\n")
	for _, ing := range r.Ingredients {
		if ing.Quantity != "" {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", ing.Name, ing.Quantity))
		} else {
			sb.WriteString(fmt.Sprintf("- %s\n", ing.Name))
		}
	}
	sb.WriteString("Steps:\n")
	for i, step := range r.Steps {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
	}
	return sb.String()
}

// FormatDislikes 將不喜歡的食材集合格式化為逗號分隔字串
func FormatDislikes(dislikes []string) string {
	if len(dislikes) == 0 {
		return "none"
	}
	return strings.Join(dislikes, ", ")
}
