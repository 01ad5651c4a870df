package parser

// ParsedIngredient 食材句子的解析結果
// 欄位不存在時為空字串
type ParsedIngredient struct {
	Sentence string `json:"sentence"` // 原始輸入
	Quantity string `json:"quantity"` // 數量，例如 "2.5"、"1-2"、"2 x 100"
	Unit     string `json:"unit"`     // 單位，保留輸入中的寫法
	Name     string `json:"name"`     // 食材名稱
	Comment  string `json:"comment"`  // 第一個逗號之後的說明
	Other    string `json:"other"`    // 保留欄位，目前永遠為空
}

// Outcome 解析結果類型
type Outcome string

const (
	// OutcomeMatched 數量／單位文法匹配成功
	OutcomeMatched Outcome = "matched"
	// OutcomeDegraded 文法不匹配，整句作為名稱
	OutcomeDegraded Outcome = "degraded"
)
