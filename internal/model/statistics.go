package model

type CategoryStat struct {
	Category    Category `json:"category"`
	TotalAmount float64  `json:"total_amount"`
	Percentage  float64  `json:"percentage"`
}

type DailyStat struct {
	Date    string  `json:"date"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}
