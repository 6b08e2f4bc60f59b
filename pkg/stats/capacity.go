// Package stats 提供排班运行的容量分析与报告构建
package stats

import (
	"fmt"
	"math"

	"github.com/zhoupai/zhoupai/pkg/model"
	"github.com/zhoupai/zhoupai/pkg/scheduler/interval"
)

// 单日覆盖分类
const (
	CapacitySufficient = "sufficient" // 可用人时 >= 需求人时
	CapacityPartial    = "partial"    // 有可用人时但不足
	CapacityNone       = "none"       // 有需求但完全无可用人时
)

// 估算缺口人数时假定的单人班次时长
const assumedShiftHours = 8.0

// DayCapacity 单日容量情况
type DayCapacity struct {
	Day            string  `json:"day"`
	RequiredHours  float64 `json:"required_hours"`  // 需求人时（时长 × 最低人数）
	AvailableHours float64 `json:"available_hours"` // 申报可用人时
	Classification string  `json:"classification"`  // sufficient/partial/none
	ShortfallHours float64 `json:"shortfall_hours"`
}

// CapacityAnalysis 整周容量分析结果
// 纯参考性输出，不影响排班决策
type CapacityAnalysis struct {
	TotalRequiredHours  float64       `json:"total_required_hours"`
	TotalAvailableHours float64       `json:"total_available_hours"`
	Days                []DayCapacity `json:"days"`
	Recommendations     []string      `json:"recommendations"`
}

// GapAnalyzer 容量缺口分析器
type GapAnalyzer struct{}

// NewGapAnalyzer 创建容量缺口分析器
func NewGapAnalyzer() *GapAnalyzer {
	return &GapAnalyzer{}
}

// Analyze 对比每日需求人时与可用人时，给出覆盖分类和补员建议
//
// 需求人时按 时长 × 最低人数 累计；可用人时计入时段的起始日。
// 归一化失败说明输入形状损坏，直接返回错误。
func (g *GapAnalyzer) Analyze(requirements []*model.ShiftRequirement, availabilities []*model.WeeklyAvailability) (*CapacityAnalysis, error) {
	requiredByDay := make(map[string]float64)
	availableByDay := make(map[string]float64)

	for _, req := range requirements {
		for day, slots := range req.Days {
			for i := range slots {
				iv, err := interval.NormalizeRequirement(&slots[i])
				if err != nil {
					return nil, fmt.Errorf("需求时段归一化失败 (%s): %w", day, err)
				}
				requiredByDay[day] += iv.Hours() * float64(slots[i].MinEmployees)
			}
		}
	}

	for _, avail := range availabilities {
		for day, dayAvail := range avail.Days {
			if dayAvail == nil || !dayAvail.Available {
				continue
			}
			for i := range dayAvail.Slots {
				iv, err := interval.NormalizeSlot(&dayAvail.Slots[i])
				if err != nil {
					return nil, fmt.Errorf("可用时段归一化失败 (员工 %s, %s): %w", avail.EmployeeID, day, err)
				}
				availableByDay[day] += iv.Hours()
			}
		}
	}

	analysis := &CapacityAnalysis{
		Days: make([]DayCapacity, 0, model.DaysPerWeek),
	}

	for _, day := range model.WeekDays() {
		required := requiredByDay[day]
		available := availableByDay[day]
		dc := DayCapacity{
			Day:            day,
			RequiredHours:  required,
			AvailableHours: available,
		}

		switch {
		case required == 0 || available >= required:
			dc.Classification = CapacitySufficient
		case available > 0:
			dc.Classification = CapacityPartial
			dc.ShortfallHours = required - available
		default:
			dc.Classification = CapacityNone
			dc.ShortfallHours = required
		}

		if dc.ShortfallHours > 0 {
			need := int(math.Ceil(dc.ShortfallHours / assumedShiftHours))
			analysis.Recommendations = append(analysis.Recommendations,
				fmt.Sprintf("%s 人力缺口 %.1f 小时，建议增加约 %d 名员工", day, dc.ShortfallHours, need))
		}

		analysis.TotalRequiredHours += required
		analysis.TotalAvailableHours += available
		analysis.Days = append(analysis.Days, dc)
	}

	return analysis, nil
}
