// Package validator 提供排班验证功能
package validator

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/zhoupai/zhoupai/pkg/model"
)

// ConflictType 冲突类型
type ConflictType string

const (
	ConflictOverlap   ConflictType = "overlap"   // 时间重叠
	ConflictDuplicate ConflictType = "duplicate" // 完全重复的分配
)

// Conflict 冲突信息
type Conflict struct {
	Type        ConflictType `json:"type"`
	EmployeeID  uuid.UUID    `json:"employee_id"`
	Day         string       `json:"day"`
	Message     string       `json:"message"`
	Assignments []uuid.UUID  `json:"assignments"` // 相关的两条分配
}

// ConflictDetector 冲突检测器
//
// 在一批分配产出后运行，也在外部人工添加班次时单独运行，
// 持续维持"同一员工同一天不存在重叠分配"的不变量。
// 只报告，不自动修正。
type ConflictDetector struct{}

// NewConflictDetector 创建冲突检测器
func NewConflictDetector() *ConflictDetector {
	return &ConflictDetector{}
}

// DetectAll 检测一批分配中的全部冲突
//
// 按 (员工, 星期) 分组，组内按起止时间排序后检查相邻对：
// 前一条结束晚于后一条开始即为重叠；首尾相接不算冲突。
// 起止完全相同的分配单独标记为 duplicate。
func (d *ConflictDetector) DetectAll(assignments []*model.ShiftAssignment) []Conflict {
	groups := groupByEmployeeDay(assignments)

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var conflicts []Conflict
	for _, k := range keys {
		group := groups[k]
		// 按 (开始, 结束) 排序，保证起止完全相同的分配相邻，
		// 不会被同起点但更早结束的第三条隔开
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].StartMinutes != group[j].StartMinutes {
				return group[i].StartMinutes < group[j].StartMinutes
			}
			return group[i].EndMinutes < group[j].EndMinutes
		})

		for i := 0; i < len(group)-1; i++ {
			current, next := group[i], group[i+1]

			if current.StartMinutes == next.StartMinutes && current.EndMinutes == next.EndMinutes {
				conflicts = append(conflicts, Conflict{
					Type:       ConflictDuplicate,
					EmployeeID: current.EmployeeID,
					Day:        current.Day,
					Message: fmt.Sprintf("员工 %s 在 %s %s-%s 存在重复分配",
						current.EmployeeID, current.Day, current.StartTime, current.EndTime),
					Assignments: []uuid.UUID{current.ID, next.ID},
				})
				continue
			}

			if current.EndMinutes > next.StartMinutes {
				conflicts = append(conflicts, Conflict{
					Type:       ConflictOverlap,
					EmployeeID: current.EmployeeID,
					Day:        current.Day,
					Message: fmt.Sprintf("员工 %s 在 %s 存在重叠分配: %s-%s 与 %s-%s",
						current.EmployeeID, current.Day,
						current.StartTime, current.EndTime, next.StartTime, next.EndTime),
					Assignments: []uuid.UUID{current.ID, next.ID},
				})
			}
		}
	}

	return conflicts
}

// DetectForAssignment 检测一条新增分配与已有分配的冲突（人工加班次的校验路径）
func (d *ConflictDetector) DetectForAssignment(newAssignment *model.ShiftAssignment, existing []*model.ShiftAssignment) []Conflict {
	var conflicts []Conflict

	for _, a := range existing {
		if a.EmployeeID != newAssignment.EmployeeID || a.Day != newAssignment.Day {
			continue
		}
		if a.ID == newAssignment.ID {
			continue
		}

		if a.StartMinutes == newAssignment.StartMinutes && a.EndMinutes == newAssignment.EndMinutes {
			conflicts = append(conflicts, Conflict{
				Type:       ConflictDuplicate,
				EmployeeID: newAssignment.EmployeeID,
				Day:        newAssignment.Day,
				Message: fmt.Sprintf("员工 %s 在 %s %s-%s 存在重复分配",
					newAssignment.EmployeeID, newAssignment.Day, newAssignment.StartTime, newAssignment.EndTime),
				Assignments: []uuid.UUID{newAssignment.ID, a.ID},
			})
			continue
		}

		if newAssignment.Overlaps(a) {
			conflicts = append(conflicts, Conflict{
				Type:       ConflictOverlap,
				EmployeeID: newAssignment.EmployeeID,
				Day:        newAssignment.Day,
				Message: fmt.Sprintf("员工 %s 在 %s 的新分配 %s-%s 与已有分配 %s-%s 重叠",
					newAssignment.EmployeeID, newAssignment.Day,
					newAssignment.StartTime, newAssignment.EndTime, a.StartTime, a.EndTime),
				Assignments: []uuid.UUID{newAssignment.ID, a.ID},
			})
		}
	}

	return conflicts
}

// groupByEmployeeDay 按 (员工, 星期) 分组
func groupByEmployeeDay(assignments []*model.ShiftAssignment) map[string][]*model.ShiftAssignment {
	result := make(map[string][]*model.ShiftAssignment)
	for _, a := range assignments {
		key := a.EmployeeID.String() + "|" + a.Day
		result[key] = append(result[key], a)
	}
	return result
}
