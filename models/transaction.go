package models

import (
	"errors"
	"math"
	"time"
)

// 收支类型常量
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// BreakdownTolerance 明细合计与总金额允许的最大误差
const BreakdownTolerance = 0.01

var (
	ErrInvalidType       = errors.New("收支类型无效")
	ErrInvalidAmount     = errors.New("金额必须大于0")
	ErrMissingDate       = errors.New("日期不能为空")
	ErrEmptyCategory     = errors.New("类别不能为空")
	ErrBreakdownMismatch = errors.New("明细合计与总金额不一致")
)

// Breakdown 一条交易记录下的明细项，用于把一笔总额拆成多个条目
type Breakdown struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Transaction 交易记录，收入和支出共用一个模型，方向由 Type 区分，
// Amount 始终为正数
type Transaction struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Amount      float64     `json:"amount"`
	Category    string      `json:"category"`
	Description string      `json:"description,omitempty"`
	Date        Date        `json:"date"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Breakdowns  []Breakdown `json:"breakdowns,omitempty"`
}

// Validate 校验记录本身的约束（类别是否存在由 store 层校验）
func (t Transaction) Validate() error {
	if t.Type != TypeIncome && t.Type != TypeExpense {
		return ErrInvalidType
	}
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	if t.Category == "" {
		return ErrEmptyCategory
	}
	if t.Date.IsZero() {
		return ErrMissingDate
	}
	if len(t.Breakdowns) > 0 {
		if _, ok := BreakdownDeficit(t.Amount, t.Breakdowns); !ok {
			return ErrBreakdownMismatch
		}
	}
	return nil
}

// BreakdownDeficit 计算明细合计与总金额的差值。
// 返回差额（总金额 - 明细合计）和是否在容差内：
// 差额为正表示明细合计比总金额少，为负表示比总金额多
func BreakdownDeficit(amount float64, breakdowns []Breakdown) (float64, bool) {
	var sum float64
	for _, b := range breakdowns {
		sum += b.Amount
	}
	deficit := amount - sum
	return deficit, math.Abs(deficit) < BreakdownTolerance
}
