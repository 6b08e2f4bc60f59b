// Package solver 实现整周排班运行的编排
//
// 一次运行是对单个 (公司, 部门, 周) 快照的纯同步计算：
// 输入在运行开始前一次性取齐，运行期间不做任何阻塞 I/O，
// 运行结束后全部中间状态即被丢弃。
package solver

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/zhoupai/zhoupai/pkg/logger"
	"github.com/zhoupai/zhoupai/pkg/model"
	"github.com/zhoupai/zhoupai/pkg/scheduler/allocator"
	"github.com/zhoupai/zhoupai/pkg/scheduler/constraint"
	"github.com/zhoupai/zhoupai/pkg/scheduler/interval"
	"github.com/zhoupai/zhoupai/pkg/scheduler/matcher"
	"github.com/zhoupai/zhoupai/pkg/stats"
	"github.com/zhoupai/zhoupai/pkg/validator"
)

// RunState 运行状态
type RunState string

const (
	StateIdle      RunState = "idle"
	StateAnalyzing RunState = "analyzing_constraints"
	StatePerDay    RunState = "per_day"
	StateReporting RunState = "reporting"
	StateDone      RunState = "done"
	StateFailed    RunState = "failed"
)

// Input 一次排班运行的输入快照
type Input struct {
	CompanyID      uuid.UUID                   `json:"company_id"`
	DepartmentID   uuid.UUID                   `json:"department_id"`
	WeekStart      string                      `json:"week_start"`
	Requirements   []*model.ShiftRequirement   `json:"requirements"`
	Availabilities []*model.WeeklyAvailability `json:"availabilities"`
}

// Statistics 运行统计
type Statistics struct {
	TotalSlots       int `json:"total_slots"`
	AssignedSlots    int `json:"assigned_slots"`
	UnfulfilledSlots int `json:"unfulfilled_slots"`
	TotalAssignments int `json:"total_assignments"`
	TypeOverrides    int `json:"type_overrides"`
	ConflictCount    int `json:"conflict_count"`
}

// Result 运行结果
type Result struct {
	RunID       uuid.UUID                      `json:"run_id"`
	State       RunState                       `json:"state"`
	Assignments []*model.ShiftAssignment       `json:"assignments"`
	Conflicts   []validator.Conflict           `json:"conflicts"`
	Unfulfilled []model.UnfulfilledRequirement `json:"unfulfilled"`
	Report      *stats.Report                  `json:"report"`
	Statistics  Statistics                     `json:"statistics"`
	Duration    time.Duration                  `json:"duration"`
}

// EmployeeSchedules 按员工汇总本周分配，供通知方逐人投递
// 每个员工的列表按周时间轴升序排列
func (r *Result) EmployeeSchedules() map[uuid.UUID][]*model.ShiftAssignment {
	schedules := make(map[uuid.UUID][]*model.ShiftAssignment)
	for _, a := range r.Assignments {
		schedules[a.EmployeeID] = append(schedules[a.EmployeeID], a)
	}
	for _, list := range schedules {
		sort.Slice(list, func(i, j int) bool {
			return list[i].StartMinutes < list[j].StartMinutes
		})
	}
	return schedules
}

// Solver 排班运行器
type Solver interface {
	Solve(input *Input) (*Result, error)
}

// WeeklySolver 按固定七日顺序编排的运行器
type WeeklySolver struct {
	matcher   *matcher.Matcher
	allocator *allocator.Allocator
	detector  *validator.ConflictDetector
	analyzer  *stats.GapAnalyzer
	builder   *stats.ReportBuilder
	log       *logger.EngineLogger
}

// NewWeeklySolver 创建运行器，cfg 为 nil 时使用默认匹配参数
func NewWeeklySolver(cfg *matcher.Config) *WeeklySolver {
	return &WeeklySolver{
		matcher:   matcher.NewMatcher(cfg),
		allocator: allocator.NewAllocator(),
		detector:  validator.NewConflictDetector(),
		analyzer:  stats.NewGapAnalyzer(),
		builder:   stats.NewReportBuilder(),
		log:       logger.NewEngineLogger(),
	}
}

// daySlot 单日待处理的需求时段及其所属需求文档
type daySlot struct {
	slot        *model.RequirementSlot
	requirement *model.ShiftRequirement
	startMinute int // 当日起始分钟，排序键
}

// Solve 执行一次完整的排班运行
//
// 状态流转 idle → analyzing_constraints → per_day → reporting → done。
// 输入形状错误和预检失败立即转入 failed 并返回错误；
// 单个时段无候选不是错误，记为未满足需求后继续。
// 相同输入快照的两次运行产出完全一致的分配列表。
func (s *WeeklySolver) Solve(input *Input) (*Result, error) {
	started := time.Now()
	result := &Result{
		RunID: uuid.New(),
		State: StateIdle,
	}

	s.log.StartRun(result.RunID.String(), input.WeekStart, len(input.Availabilities), len(input.Requirements))

	if err := s.validateInput(input); err != nil {
		return s.fail(result, started, err)
	}

	// 运行前容量预估，仅供报告参考，不阻断运行
	result.State = StateAnalyzing
	capacity, err := s.analyzer.Analyze(input.Requirements, input.Availabilities)
	if err != nil {
		return s.fail(result, started, err)
	}

	result.State = StatePerDay
	tracker := constraint.NewTracker()

	for _, day := range model.WeekDays() {
		tracker.ResetDay()

		slots, err := s.collectDaySlots(input.Requirements, day)
		if err != nil {
			return s.fail(result, started, err)
		}

		dayAssigned := 0
		dayUnfulfilled := 0

		for _, ds := range slots {
			result.Statistics.TotalSlots++

			candidates, overrides, err := s.matcher.FindCandidates(ds.slot, day, input.Availabilities, tracker)
			if err != nil {
				return s.fail(result, started, err)
			}

			for _, ov := range overrides {
				result.Statistics.TypeOverrides++
				s.log.TypeOverride(ov.EmployeeID.String(), ov.Day, ov.StartTime,
					string(ov.Declared), string(ov.Inferred))
			}

			ranked := s.matcher.RankCandidates(candidates)

			reqIv, err := interval.NormalizeRequirement(ds.slot)
			if err != nil {
				return s.fail(result, started, err)
			}

			assignments := s.allocator.Allocate(ds.slot, reqIv, ranked,
				ds.requirement.DepartmentID, input.WeekStart, day)
			for _, a := range assignments {
				tracker.Apply(a)
				result.Assignments = append(result.Assignments, a)
			}
			dayAssigned += len(assignments)

			if len(assignments) < ds.slot.MinEmployees {
				uf := model.UnfulfilledRequirement{
					Day:       day,
					StartTime: ds.slot.StartTime,
					EndTime:   ds.slot.EndTime,
					Required:  ds.slot.MinEmployees,
					Assigned:  len(assignments),
					Shortfall: ds.slot.MinEmployees - len(assignments),
				}
				result.Unfulfilled = append(result.Unfulfilled, uf)
				dayUnfulfilled++
				s.log.UnfulfilledSlot(result.RunID.String(), day,
					ds.slot.StartTime+"-"+ds.slot.EndTime, uf.Required, uf.Assigned)
			}
		}

		s.log.DayComplete(result.RunID.String(), day, dayAssigned, dayUnfulfilled)
	}

	result.State = StateReporting
	result.Conflicts = s.detector.DetectAll(result.Assignments)
	result.Report = s.builder.Build(capacity, result.Assignments, result.Unfulfilled, result.Statistics.TotalSlots)

	result.Statistics.TotalAssignments = len(result.Assignments)
	result.Statistics.UnfulfilledSlots = len(result.Unfulfilled)
	result.Statistics.AssignedSlots = result.Statistics.TotalSlots - result.Statistics.UnfulfilledSlots
	result.Statistics.ConflictCount = len(result.Conflicts)

	result.State = StateDone
	result.Duration = time.Since(started)
	s.log.RunComplete(result.RunID.String(), result.Duration,
		result.Statistics.TotalAssignments, result.Statistics.ConflictCount, result.Statistics.UnfulfilledSlots)

	return result, nil
}

// validateInput 运行前输入预检，任何一项失败都拒绝整次运行
func (s *WeeklySolver) validateInput(input *Input) error {
	if input == nil {
		return fmt.Errorf("运行输入为空")
	}
	if err := model.ValidateWeekStart(input.WeekStart); err != nil {
		return err
	}
	if err := validator.ValidateAvailabilities(input.Availabilities); err != nil {
		return err
	}
	if err := validator.ValidateRequirements(input.Requirements); err != nil {
		return err
	}
	return nil
}

// collectDaySlots 收集指定日的全部需求时段并按起始分钟升序排列
//
// 时间顺序处理是刻意的决胜规则：更早的班次先挑人。
// 起点相同时保持需求文档的原始顺序，保证运行结果可复现。
func (s *WeeklySolver) collectDaySlots(requirements []*model.ShiftRequirement, day string) ([]daySlot, error) {
	var slots []daySlot
	for _, req := range requirements {
		daySlots := req.SlotsFor(day)
		for i := range daySlots {
			slot := &daySlots[i]
			startMinute, err := model.ParseClock(slot.StartTime)
			if err != nil {
				return nil, fmt.Errorf("%s 需求时段起点解析失败: %w", day, err)
			}
			slots = append(slots, daySlot{
				slot:        slot,
				requirement: req,
				startMinute: startMinute,
			})
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].startMinute < slots[j].startMinute
	})
	return slots, nil
}

// fail 统一的失败出口
func (s *WeeklySolver) fail(result *Result, started time.Time, err error) (*Result, error) {
	result.State = StateFailed
	result.Duration = time.Since(started)
	s.log.RunFailed(result.RunID.String(), err)
	return result, err
}
