// Package allocator 提供覆盖分配：从排序后的候选中选出实际排班
package allocator

import (
	"github.com/google/uuid"

	"github.com/zhoupai/zhoupai/pkg/model"
	"github.com/zhoupai/zhoupai/pkg/scheduler/interval"
	"github.com/zhoupai/zhoupai/pkg/scheduler/matcher"
)

// Allocator 覆盖分配器
type Allocator struct{}

// NewAllocator 创建覆盖分配器
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Allocate 为一个需求时段从排序候选中分配员工
//
// 策略A（优先）：存在完全匹配时直接取前 minEmployees 个完全匹配，
// 避免把一个班次碎片化地拆给多个部分覆盖的员工。
// 策略B（兜底）：无完全匹配时按逐分钟覆盖位图做贪心集合覆盖，
// 每轮选择能新覆盖最多未覆盖分钟的候选；平局按覆盖率、再按排序位次。
// 有界贪心近似，不保证全局最优，但确定且可解释。
//
// 同一员工在同一时段最多分配一次；分配数不超过 minEmployees。
func (al *Allocator) Allocate(
	req *model.RequirementSlot,
	reqIv interval.Interval,
	ranked []matcher.Candidate,
	departmentID uuid.UUID,
	weekStart, day string,
) []*model.ShiftAssignment {
	if len(ranked) == 0 || req.MinEmployees < 1 {
		return nil
	}

	selected := al.selectExact(ranked, req.MinEmployees)
	if len(selected) == 0 {
		selected = al.selectGreedy(ranked, reqIv, req.MinEmployees)
	}

	assignments := make([]*model.ShiftAssignment, 0, len(selected))
	for _, c := range selected {
		assignments = append(assignments, al.toAssignment(c, departmentID, weekStart, day))
	}
	return assignments
}

// selectExact 策略A：取排序靠前的完全匹配
func (al *Allocator) selectExact(ranked []matcher.Candidate, minEmployees int) []matcher.Candidate {
	var selected []matcher.Candidate
	seen := make(map[uuid.UUID]bool)

	for i := range ranked {
		if !ranked[i].ExactMatch {
			continue
		}
		if seen[ranked[i].EmployeeID] {
			continue
		}
		seen[ranked[i].EmployeeID] = true
		selected = append(selected, ranked[i])
		if len(selected) >= minEmployees {
			break
		}
	}

	return selected
}

// selectGreedy 策略B：逐分钟覆盖位图贪心
func (al *Allocator) selectGreedy(ranked []matcher.Candidate, reqIv interval.Interval, minEmployees int) []matcher.Candidate {
	covered := make([]bool, reqIv.Duration())
	used := make([]bool, len(ranked))
	seen := make(map[uuid.UUID]bool)

	var selected []matcher.Candidate

	for len(selected) < minEmployees {
		bestIdx := -1
		bestGain := 0

		for i := range ranked {
			if used[i] || seen[ranked[i].EmployeeID] {
				continue
			}
			gain := al.uncoveredGain(covered, reqIv, ranked[i].Window)
			if gain > bestGain ||
				(gain == bestGain && gain > 0 && bestIdx >= 0 && ranked[i].Coverage > ranked[bestIdx].Coverage) {
				bestIdx = i
				bestGain = gain
			}
		}

		// 没有候选能带来新的覆盖，提前结束
		if bestIdx < 0 || bestGain == 0 {
			break
		}

		used[bestIdx] = true
		seen[ranked[bestIdx].EmployeeID] = true
		selected = append(selected, ranked[bestIdx])
		al.markCovered(covered, reqIv, ranked[bestIdx].Window)
	}

	return selected
}

// uncoveredGain 计算候选窗口能新覆盖的分钟数
func (al *Allocator) uncoveredGain(covered []bool, reqIv interval.Interval, window interval.Interval) int {
	gain := 0
	for m := window.Start; m < window.End; m++ {
		offset := m - reqIv.Start
		if offset >= 0 && offset < len(covered) && !covered[offset] {
			gain++
		}
	}
	return gain
}

// markCovered 在位图上标记候选窗口
func (al *Allocator) markCovered(covered []bool, reqIv interval.Interval, window interval.Interval) {
	for m := window.Start; m < window.End; m++ {
		offset := m - reqIv.Start
		if offset >= 0 && offset < len(covered) {
			covered[offset] = true
		}
	}
}

// toAssignment 把选中候选转换为排班分配，时间取实际重叠窗口
func (al *Allocator) toAssignment(c matcher.Candidate, departmentID uuid.UUID, weekStart, day string) *model.ShiftAssignment {
	return &model.ShiftAssignment{
		BaseModel:    model.NewBaseModel(),
		EmployeeID:   c.EmployeeID,
		DepartmentID: departmentID,
		WeekStart:    weekStart,
		Day:          day,
		StartTime:    c.StartTime,
		EndTime:      c.EndTime,
		StartMinutes: c.Window.Start,
		EndMinutes:   c.Window.End,
		Hours:        c.Window.Hours(),
		Status:       "scheduled",
	}
}
