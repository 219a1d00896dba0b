package intent

// Kind 意圖類別
type Kind string

const (
	KindGetRecipe  Kind = "get_recipe"
	KindAddDislike Kind = "add_dislike"
	KindReplace    Kind = "replace"
	KindSmalltalk  Kind = "smalltalk"
	KindUnknown    Kind = "unknown"
)

// Replacement 一組替換：把 Src 換成 Dst
type Replacement struct {
	Src string `json:"src"`
	Dst string `json:"dst"`
}

// Intent 使用者訊息解析出的結構化意圖，僅存在於單一請求內
type Intent struct {
	Kind         Kind
	RecipeName   string
	Dislikes     []string
	Replacements []Replacement
}

// Unknown 無法解析時的中性意圖
func Unknown() *Intent {
	return &Intent{Kind: KindUnknown}
}

// Actionable 是否為可以直接處理的意圖
func (i *Intent) Actionable() bool {
	switch i.Kind {
	case KindReplace:
		return len(i.Replacements) > 0
	case KindAddDislike:
		return len(i.Dislikes) > 0
	case KindGetRecipe:
		return i.RecipeName != ""
	default:
		return false
	}
}
