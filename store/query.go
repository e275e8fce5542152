package store

import (
	"sort"

	"moneytrack/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ListTransactions 返回筛选并排序后的记录视图。筛选条件之间为
// 与关系；排序为稳定排序，相等记录保持原有相对顺序。返回的是
// 副本，不会暴露内部集合
func (s *Store) ListTransactions(filter *models.FilterCriteria, sortBy *models.SortCriteria) []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		if matchFilter(t, filter) {
			result = append(result, t)
		}
	}
	sortTransactions(result, sortBy)
	return result
}

// matchFilter 判断记录是否满足筛选条件。日期区间为闭区间；
// 日期为零值（无法解析）的记录在任何日期筛选下都被排除
func matchFilter(t models.Transaction, f *models.FilterCriteria) bool {
	if f == nil {
		return true
	}
	if !f.DateFrom.IsZero() {
		if t.Date.IsZero() || t.Date.Before(f.DateFrom) {
			return false
		}
	}
	if !f.DateTo.IsZero() {
		if t.Date.IsZero() || t.Date.After(f.DateTo) {
			return false
		}
	}
	if f.Category != "" && f.Category != models.FilterAll && t.Category != f.Category {
		return false
	}
	if f.Type != "" && f.Type != models.FilterAll && t.Type != f.Type {
		return false
	}
	return true
}

// sortTransactions 按排序条件稳定排序，字符串字段按本地化规则比较
func sortTransactions(list []models.Transaction, sc *models.SortCriteria) {
	if sc == nil || sc.Field == "" {
		return
	}
	col := collate.New(language.English)
	desc := sc.Direction == models.SortDesc

	sort.SliceStable(list, func(i, j int) bool {
		var cmp int
		switch sc.Field {
		case models.SortFieldAmount:
			switch {
			case list[i].Amount < list[j].Amount:
				cmp = -1
			case list[i].Amount > list[j].Amount:
				cmp = 1
			}
		case models.SortFieldCategory:
			cmp = col.CompareString(list[i].Category, list[j].Category)
		default: // date
			switch {
			case list[i].Date.Before(list[j].Date):
				cmp = -1
			case list[i].Date.After(list[j].Date):
				cmp = 1
			}
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}
