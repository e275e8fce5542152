package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validTransaction() Transaction {
	return Transaction{
		Type:     TypeExpense,
		Amount:   60,
		Category: "food",
		Date:     NewDate(2024, 3, 15),
	}
}

func TestTransactionValidate(t *testing.T) {
	// 合法记录
	assert.NoError(t, validTransaction().Validate())

	// 收支类型无效
	tx := validTransaction()
	tx.Type = "transfer"
	assert.ErrorIs(t, tx.Validate(), ErrInvalidType)

	// 金额必须大于0
	tx = validTransaction()
	tx.Amount = 0
	assert.ErrorIs(t, tx.Validate(), ErrInvalidAmount)
	tx.Amount = -5
	assert.ErrorIs(t, tx.Validate(), ErrInvalidAmount)

	// 类别不能为空
	tx = validTransaction()
	tx.Category = ""
	assert.ErrorIs(t, tx.Validate(), ErrEmptyCategory)

	// 日期不能为空
	tx = validTransaction()
	tx.Date = Date{}
	assert.ErrorIs(t, tx.Validate(), ErrMissingDate)
}

func TestTransactionValidateBreakdowns(t *testing.T) {
	// 明细合计与总金额一致
	tx := validTransaction()
	tx.Breakdowns = []Breakdown{
		{Description: "主食", Amount: 25},
		{Description: "饮料", Amount: 15},
		{Description: "甜点", Amount: 20},
	}
	assert.NoError(t, tx.Validate())

	// 明细合计少了 5 元
	tx.Breakdowns = []Breakdown{
		{Description: "主食", Amount: 25},
		{Description: "饮料", Amount: 15},
		{Description: "甜点", Amount: 15},
	}
	assert.ErrorIs(t, tx.Validate(), ErrBreakdownMismatch)

	// 空明细不参与校验
	tx.Breakdowns = nil
	assert.NoError(t, tx.Validate())
}

func TestBreakdownDeficit(t *testing.T) {
	// 容差内视为一致
	deficit, ok := BreakdownDeficit(60, []Breakdown{{Amount: 30}, {Amount: 30.005}})
	assert.True(t, ok)
	assert.InDelta(t, -0.005, deficit, 1e-9)

	// 明细合计比总金额少
	deficit, ok = BreakdownDeficit(60, []Breakdown{{Amount: 25}, {Amount: 15}, {Amount: 15}})
	assert.False(t, ok)
	assert.InDelta(t, 5, deficit, 1e-9)

	// 明细合计比总金额多
	deficit, ok = BreakdownDeficit(60, []Breakdown{{Amount: 40}, {Amount: 25}})
	assert.False(t, ok)
	assert.InDelta(t, -5, deficit, 1e-9)

	// 恰好在容差边界上视为不一致
	_, ok = BreakdownDeficit(60, []Breakdown{{Amount: 59.99}})
	assert.False(t, ok)
}

func TestTransactionJSON(t *testing.T) {
	tx := validTransaction()
	tx.ID = "tx-1"
	tx.Description = "午餐"

	data, err := json.Marshal(tx)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"date":"2024-03-15"`)
	assert.Contains(t, string(data), `"createdAt"`)

	var decoded Transaction
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, tx.ID, decoded.ID)
	assert.Equal(t, "2024-03-15", decoded.Date.String())
}
