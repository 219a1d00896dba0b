package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Naviunni/sous-ducking-recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrNotFound 找不到符合名稱的食譜
var ErrNotFound = errors.New("recipe not found")

// Store 本地食譜資料儲存，啟動時載入一次後唯讀
type Store struct {
	recipes []common.Recipe
}

type catalogFile struct {
	Recipes []common.Recipe `json:"recipes"`
}

// NewStore 載入食譜資料檔並建立儲存
// 檔案不存在時以空資料啟動，不視為致命錯誤
func NewStore(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			common.LogWarn("找不到食譜資料檔，以空資料啟動",
				zap.String("path", path),
			)
			return &Store{}, nil
		}
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := common.ParseJSONBytes(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	common.LogInfo("食譜資料已載入",
		zap.String("path", path),
		zap.Int("count", len(file.Recipes)),
	)

	return &Store{recipes: file.Recipes}, nil
}

// Len 食譜數量
func (s *Store) Len() int {
	return len(s.recipes)
}

// FindByName 以名稱查找食譜
// 先做不分大小寫的精確比對，再做子字串比對，依資料順序取第一筆
// 回傳的是深拷貝，呼叫端可安全修改
func (s *Store) FindByName(name string) (*common.Recipe, error) {
	target := strings.ToLower(strings.TrimSpace(name))
	if target == "" {
		return nil, ErrNotFound
	}

	for i := range s.recipes {
		if strings.ToLower(s.recipes[i].Name) == target {
			return s.recipes[i].Clone(), nil
		}
	}

	for i := range s.recipes {
		if strings.Contains(strings.ToLower(s.recipes[i].Name), target) {
			return s.recipes[i].Clone(), nil
		}
	}

	return nil, ErrNotFound
}
