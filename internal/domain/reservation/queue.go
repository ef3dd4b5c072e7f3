package reservation

import "sort"

// SortQueue 按排队顺序排序：created_at升序，相同时按ID升序
func SortQueue(list []*Reservation) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}

// QueuePosition 预约在同一本书Pending队列中的位置（从1开始），不在队列中返回0
// pending须为该书全部Pending预约
func QueuePosition(pending []*Reservation, id uint) int {
	sorted := make([]*Reservation, len(pending))
	copy(sorted, pending)
	SortQueue(sorted)

	for i, r := range sorted {
		if r.ID == id {
			return i + 1
		}
	}
	return 0
}
