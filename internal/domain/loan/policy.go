package loan

import "time"

// Policy 借阅策略常量
type Policy struct {
	MaxActiveLoans int           // 每个用户最多同时在借数量
	LoanDuration   time.Duration // 借期
	LateFeePerDay  int64         // 每逾期一天的滞纳金（分）
}

// DefaultPolicy 5本 / 14天 / 每天50分
func DefaultPolicy() Policy {
	return Policy{
		MaxActiveLoans: 5,
		LoanDuration:   14 * 24 * time.Hour,
		LateFeePerDay:  50,
	}
}

// DaysLate 逾期天数，不足一天的部分舍去，提前或按时归还为0
func DaysLate(due, returned time.Time) int64 {
	if !returned.After(due) {
		return 0
	}
	return int64(returned.Sub(due) / (24 * time.Hour))
}

// FineFor 滞纳金 = max(0, 逾期天数) × 每日费率
func (p Policy) FineFor(due, returned time.Time) int64 {
	return DaysLate(due, returned) * p.LateFeePerDay
}

// CanBorrow 在借数量是否低于上限
func (p Policy) CanBorrow(activeLoans int64) bool {
	return activeLoans < int64(p.MaxActiveLoans)
}
