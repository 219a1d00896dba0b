package intent

import (
	"regexp"
	"strings"
)

// Matcher 具名的規則比對器
// 比對器依宣告順序逐一嘗試，第一個命中的勝出，
// 同一訊息不會觸發兩次
type Matcher struct {
	Name  string
	Match func(message string) *Intent
}

// 尾端雜訊：空白與標點
const trimCutset = " \t.!?,:;'\""

func cleanCapture(s string) string {
	return strings.Trim(strings.TrimSpace(s), trimCutset)
}

var (
	replaceWithPattern = regexp.MustCompile(`(?i)\breplace\s+(.+?)\s+with\s+([^.!?,:;]+)`)
	useInsteadPattern  = regexp.MustCompile(`(?i)\buse\s+(.+?)\s+instead\s+of\s+([^.!?,:;]+)`)
	recipeForPattern   = regexp.MustCompile(`(?i)\brecipe\s+for\s+([^.!?,:;]+)`)
	recipeLeadPattern  = regexp.MustCompile(`(?i)^recipe\s+(.+)$`)
	giveRecipePattern  = regexp.MustCompile(`(?i)\bgive\s+me\s+a\s+recipe\s+for\s+([^.!?,:;]+)`)

	// 不喜歡/過敏/缺少食材的觸發語，依序嘗試
	dislikePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:i\s+)?(?:don'?t|do\s+not)\s+like\s+([^.!?,:;]+)`),
		regexp.MustCompile(`(?i)\b(?:i\s+)?(?:don'?t|do\s+not)\s+have\s+([^.!?,:;]+)`),
		regexp.MustCompile(`(?i)\b(?:i\s+)?can(?:'?t|not)\s+have\s+([^.!?,:;]+)`),
		regexp.MustCompile(`(?i)\ballergic\s+to\s+([^.!?,:;]+)`),
		regexp.MustCompile(`(?i)\bno\s+([^.!?,:;]+)`),
		regexp.MustCompile(`(?i)\bwithout\s+([^.!?,:;]+)`),
		regexp.MustCompile(`(?i)\b(?:avoid|skip|leave\s+out)\s+([^.!?,:;]+)`),
	}
)

// matchers 規則比對器的固定優先順序：替換語句、不喜歡語句、食譜請求
var matchers = []Matcher{
	{
		Name: "replacement_phrase",
		Match: func(message string) *Intent {
			if m := replaceWithPattern.FindStringSubmatch(message); m != nil {
				src, dst := cleanCapture(m[1]), cleanCapture(m[2])
				if src != "" && dst != "" {
					return &Intent{
						Kind:         KindReplace,
						Replacements: []Replacement{{Src: src, Dst: dst}},
					}
				}
			}
			// "use X instead of Y"：要換掉的是 Y
			if m := useInsteadPattern.FindStringSubmatch(message); m != nil {
				src, dst := cleanCapture(m[2]), cleanCapture(m[1])
				if src != "" && dst != "" {
					return &Intent{
						Kind:         KindReplace,
						Replacements: []Replacement{{Src: src, Dst: dst}},
					}
				}
			}
			return nil
		},
	},
	{
		Name: "dislike_phrase",
		Match: func(message string) *Intent {
			for _, p := range dislikePatterns {
				if m := p.FindStringSubmatch(message); m != nil {
					term := cleanCapture(m[1])
					if term != "" {
						return &Intent{
							Kind:     KindAddDislike,
							Dislikes: []string{strings.ToLower(term)},
						}
					}
				}
			}
			return nil
		},
	},
	{
		Name: "recipe_request",
		Match: func(message string) *Intent {
			for _, p := range []*regexp.Regexp{recipeForPattern, giveRecipePattern, recipeLeadPattern} {
				if m := p.FindStringSubmatch(message); m != nil {
					name := cleanCapture(m[1])
					if name != "" {
						return &Intent{
							Kind:       KindGetRecipe,
							RecipeName: strings.ToLower(name),
						}
					}
				}
			}
			return nil
		},
	},
}

// ResolveHeuristic 以規則比對解析訊息
// 回傳命中的意圖與比對器名稱，全部未命中時回傳 nil
func ResolveHeuristic(message string) (*Intent, string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ""
	}
	for _, m := range matchers {
		if it := m.Match(message); it != nil {
			return it, m.Name
		}
	}
	return nil, ""
}
