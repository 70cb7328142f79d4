package model

import "time"

// MaterialRanking is one row of the most-requested-materials aggregation
type MaterialRanking struct {
	MaterialID   uint   `json:"material_id"`
	MaterialName string `json:"material_name"`
	TotalQty     int64  `json:"total_qty"`
	TotalValue   string `json:"total_value"`
}

// RequestStatistics aggregates the request workload within a time bracket
type RequestStatistics struct {
	TimeRangeStartDate    time.Time         `json:"time_range_start_date"`
	TimeRangeEndDate      time.Time         `json:"time_range_end_date"`
	CountsByStatus        map[string]int64  `json:"counts_by_status"`
	TotalRequestedValue   string            `json:"total_requested_value"`
	TopRequestedMaterials []MaterialRanking `json:"top_requested_materials"`
}
