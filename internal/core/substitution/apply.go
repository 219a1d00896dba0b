package substitution

import (
	"context"
	"sort"
	"strings"

	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/pkg/common"
)

// span 原始文字中某個不喜歡食材的比對區間
type span struct {
	start int
	end   int
	sub   string
}

// Apply 回傳一份把不喜歡食材替換掉的新食譜
// 所有比對區間都先針對原始文字計算，再一次套用不重疊的替換，
// 因此多個互相重疊的詞之間沒有先後順序問題
func (e *Engine) Apply(ctx context.Context, recipe *common.Recipe, dislikes []string) *common.Recipe {
	return e.ApplyWithPreferred(ctx, recipe, dislikes, nil)
}

// ApplyWithPreferred 同 Apply，但 preferred 指定某些詞要換成什麼
// （使用者明講的替換目標），沒指定的詞才查替換表
func (e *Engine) ApplyWithPreferred(ctx context.Context, recipe *common.Recipe, dislikes []string, preferred map[string]string) *common.Recipe {
	out := recipe.Clone()
	if out == nil || len(dislikes) == 0 {
		return out
	}

	// 正規化並排序，讓結果可重現
	terms := make([]string, 0, len(dislikes))
	seen := make(map[string]struct{}, len(dislikes))
	for _, d := range dislikes {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		terms = append(terms, d)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return out
	}

	// 每個詞只查一次替換品：先看指定目標，再取替換表第一個候選
	subs := make(map[string]string, len(terms))
	lookup := func(term string) string {
		if s, ok := subs[term]; ok {
			return s
		}
		s := ""
		if p, ok := preferred[term]; ok && strings.TrimSpace(p) != "" {
			s = strings.TrimSpace(p)
		} else if candidates := e.Suggest(ctx, term); len(candidates) > 0 {
			s = candidates[0]
		}
		subs[term] = s
		return s
	}

	for i := range out.Ingredients {
		out.Ingredients[i].Name = e.replaceTerms(ctx, out.Ingredients[i].Name, terms, lookup)
	}
	for i := range out.Steps {
		out.Steps[i] = e.replaceTerms(ctx, out.Steps[i], terms, lookup)
	}

	return out
}

// replaceTerms 對單段文字做單趟替換
// 區間重疊時較早開始者優先，同一起點取較長的詞
func (e *Engine) replaceTerms(ctx context.Context, text string, terms []string, lookup func(string) string) string {
	lower := strings.ToLower(text)

	var spans []span
	for _, term := range terms {
		idx := 0
		for {
			i := strings.Index(lower[idx:], term)
			if i < 0 {
				break
			}
			start := idx + i
			sub := lookup(term)
			if sub != "" {
				spans = append(spans, span{start: start, end: start + len(term), sub: sub})
			}
			idx = start + len(term)
		}
	}
	if len(spans) == 0 {
		return text
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})

	var sb strings.Builder
	pos := 0
	for _, sp := range spans {
		if sp.start < pos {
			// 與已套用的區間重疊，跳過
			continue
		}
		sb.WriteString(text[pos:sp.start])
		sb.WriteString(sp.sub)
		pos = sp.end
	}
	sb.WriteString(text[pos:])
	return sb.String()
}
