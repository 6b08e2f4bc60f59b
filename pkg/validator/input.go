package validator

import (
	"fmt"

	"github.com/zhoupai/zhoupai/pkg/model"
	"github.com/zhoupai/zhoupai/pkg/scheduler/interval"
)

// maxDailyDeclaredMinutes 单日申报可用时长上限（12小时）
const maxDailyDeclaredMinutes = 12 * 60

// ValidateAvailabilities 对一批周可用性做运行前验证
//
// 检查项：基本形状（时间格式、网格、星期名称）、同一 (员工, 周) 唯一、
// 同日时段互不重叠、单日申报总时长不超过 12 小时。
// 任何一项失败都视为上游数据损坏，整次运行拒绝执行。
func ValidateAvailabilities(availabilities []*model.WeeklyAvailability) error {
	seen := make(map[string]bool)

	for _, avail := range availabilities {
		if err := avail.Validate(); err != nil {
			return err
		}

		key := avail.EmployeeID.String() + "|" + avail.WeekStart
		if seen[key] {
			return fmt.Errorf("员工 %s 在周 %s 存在重复的可用性记录", avail.EmployeeID, avail.WeekStart)
		}
		seen[key] = true

		for day, dayAvail := range avail.Days {
			if dayAvail == nil || len(dayAvail.Slots) == 0 {
				continue
			}

			intervals := make([]interval.Interval, len(dayAvail.Slots))
			total := 0
			for i := range dayAvail.Slots {
				iv, err := interval.NormalizeSlot(&dayAvail.Slots[i])
				if err != nil {
					return fmt.Errorf("员工 %s %s: %w", avail.EmployeeID, day, err)
				}
				intervals[i] = iv
				total += iv.Duration()
			}

			if err := checkPairwiseOverlap(intervals); err != nil {
				return fmt.Errorf("员工 %s %s: %w", avail.EmployeeID, day, err)
			}

			if total > maxDailyDeclaredMinutes {
				return fmt.Errorf("员工 %s %s 申报时长 %.1f 小时，超过单日 12 小时上限",
					avail.EmployeeID, day, float64(total)/60.0)
			}
		}
	}

	return nil
}

// ValidateRequirements 在需求登记边界做验证
//
// 同日需求时段必须互不重叠，重叠检查在完整的周时间轴上逐对进行
// （跨夜时段与次日时段的重叠同样会被捕获）。
// 引擎假定进入运行的需求数据已经内部一致。
func ValidateRequirements(requirements []*model.ShiftRequirement) error {
	for _, req := range requirements {
		if err := req.Validate(); err != nil {
			return err
		}

		for day, slots := range req.Days {
			intervals := make([]interval.Interval, len(slots))
			for i := range slots {
				iv, err := interval.NormalizeRequirement(&slots[i])
				if err != nil {
					return fmt.Errorf("部门 %s %s: %w", req.DepartmentID, day, err)
				}
				intervals[i] = iv
			}

			if err := checkPairwiseOverlap(intervals); err != nil {
				return fmt.Errorf("部门 %s %s 需求时段: %w", req.DepartmentID, day, err)
			}
		}
	}

	return nil
}

// checkPairwiseOverlap 逐对检查区间重叠
func checkPairwiseOverlap(intervals []interval.Interval) error {
	for i := 0; i < len(intervals); i++ {
		for j := i + 1; j < len(intervals); j++ {
			if interval.Overlaps(intervals[i], intervals[j]) {
				return fmt.Errorf("第 %d 个时段与第 %d 个时段重叠", i+1, j+1)
			}
		}
	}
	return nil
}
