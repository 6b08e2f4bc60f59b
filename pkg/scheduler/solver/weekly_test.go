package solver

import (
	"sort"
	"testing"

	"github.com/google/uuid"

	"github.com/zhoupai/zhoupai/pkg/model"
)

const testWeekStart = "2026-01-04"

func availFor(empID uuid.UUID, days map[string]*model.DayAvailability) *model.WeeklyAvailability {
	return &model.WeeklyAvailability{
		BaseModel:  model.NewBaseModel(),
		EmployeeID: empID,
		WeekStart:  testWeekStart,
		Days:       days,
	}
}

func dayAvail(day, start, end string) map[string]*model.DayAvailability {
	return map[string]*model.DayAvailability{
		day: {Available: true, Slots: []model.TimeSlot{
			{StartTime: start, EndTime: end, StartDay: day, EndDay: day},
		}},
	}
}

func reqFor(deptID uuid.UUID, days map[string][]model.RequirementSlot) *model.ShiftRequirement {
	return &model.ShiftRequirement{
		BaseModel:    model.NewBaseModel(),
		CompanyID:    uuid.New(),
		DepartmentID: deptID,
		Days:         days,
	}
}

func reqSlot(day, start, end string, minEmployees int) model.RequirementSlot {
	return model.RequirementSlot{
		StartTime: start, EndTime: end,
		StartDay: day, EndDay: day,
		MinEmployees: minEmployees,
	}
}

func TestWeeklySolver_Solve(t *testing.T) {
	s := NewWeeklySolver(nil)
	deptID := uuid.New()
	emp1, emp2 := uuid.New(), uuid.New()

	input := &Input{
		CompanyID:    uuid.New(),
		DepartmentID: deptID,
		WeekStart:    testWeekStart,
		Requirements: []*model.ShiftRequirement{
			reqFor(deptID, map[string][]model.RequirementSlot{
				"monday": {reqSlot("monday", "09:00", "17:00", 2)},
			}),
		},
		Availabilities: []*model.WeeklyAvailability{
			availFor(emp1, dayAvail("monday", "09:00", "17:00")),
			availFor(emp2, dayAvail("monday", "09:00", "17:00")),
		},
	}

	result, err := s.Solve(input)
	if err != nil {
		t.Fatalf("Solve() 错误: %v", err)
	}

	if result.State != StateDone {
		t.Errorf("状态 = %q, 期望 done", result.State)
	}
	if len(result.Assignments) != 2 {
		t.Fatalf("分配数 = %d, 期望 2", len(result.Assignments))
	}
	if len(result.Unfulfilled) != 0 {
		t.Errorf("未满足数 = %d, 期望 0", len(result.Unfulfilled))
	}
	if len(result.Conflicts) != 0 {
		t.Errorf("冲突数 = %d, 期望 0", len(result.Conflicts))
	}
	if result.Report == nil {
		t.Fatal("报告不应为空")
	}
	if result.Report.Summary.SuccessRate != 100 {
		t.Errorf("成功率 = %v, 期望 100", result.Report.Summary.SuccessRate)
	}

	st := result.Statistics
	if st.TotalSlots != 1 || st.AssignedSlots != 1 || st.TotalAssignments != 2 {
		t.Errorf("统计 = %+v", st)
	}

	for _, a := range result.Assignments {
		if a.WeekStart != testWeekStart || a.DepartmentID != deptID || a.Day != "monday" {
			t.Errorf("分配元数据错误: %+v", a)
		}
		if a.Hours != 8 {
			t.Errorf("工时 = %v, 期望 8", a.Hours)
		}
	}
}

func TestWeeklySolver_Deterministic(t *testing.T) {
	deptID := uuid.New()
	emps := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}

	newInput := func() *Input {
		return &Input{
			CompanyID:    uuid.New(),
			DepartmentID: deptID,
			WeekStart:    testWeekStart,
			Requirements: []*model.ShiftRequirement{
				reqFor(deptID, map[string][]model.RequirementSlot{
					"monday":  {reqSlot("monday", "09:00", "17:00", 2)},
					"tuesday": {reqSlot("tuesday", "10:00", "16:00", 1)},
				}),
			},
			Availabilities: []*model.WeeklyAvailability{
				availFor(emps[0], dayAvail("monday", "09:00", "17:00")),
				availFor(emps[1], dayAvail("monday", "09:00", "17:00")),
				availFor(emps[2], dayAvail("monday", "09:00", "17:00")),
				availFor(emps[3], dayAvail("tuesday", "10:00", "16:00")),
			},
		}
	}

	r1, err := NewWeeklySolver(nil).Solve(newInput())
	if err != nil {
		t.Fatal(err)
	}
	r2, err := NewWeeklySolver(nil).Solve(newInput())
	if err != nil {
		t.Fatal(err)
	}

	if len(r1.Assignments) != len(r2.Assignments) {
		t.Fatalf("两次运行分配数不同: %d vs %d", len(r1.Assignments), len(r2.Assignments))
	}
	for i := range r1.Assignments {
		a, b := r1.Assignments[i], r2.Assignments[i]
		if a.EmployeeID != b.EmployeeID || a.Day != b.Day ||
			a.StartMinutes != b.StartMinutes || a.EndMinutes != b.EndMinutes {
			t.Errorf("第 %d 条分配不一致: %+v vs %+v", i, a, b)
		}
	}
}

func TestWeeklySolver_UnfulfilledNotFatal(t *testing.T) {
	s := NewWeeklySolver(nil)
	deptID := uuid.New()
	empID := uuid.New()

	// 周三需求无任何可用员工，记录缺口但运行继续
	input := &Input{
		CompanyID:    uuid.New(),
		DepartmentID: deptID,
		WeekStart:    testWeekStart,
		Requirements: []*model.ShiftRequirement{
			reqFor(deptID, map[string][]model.RequirementSlot{
				"monday":    {reqSlot("monday", "09:00", "17:00", 1)},
				"wednesday": {reqSlot("wednesday", "09:00", "17:00", 2)},
			}),
		},
		Availabilities: []*model.WeeklyAvailability{
			availFor(empID, dayAvail("monday", "09:00", "17:00")),
		},
	}

	result, err := s.Solve(input)
	if err != nil {
		t.Fatalf("无候选不应是运行错误: %v", err)
	}
	if result.State != StateDone {
		t.Errorf("状态 = %q, 期望 done", result.State)
	}
	if len(result.Assignments) != 1 {
		t.Errorf("分配数 = %d, 期望 1", len(result.Assignments))
	}
	if len(result.Unfulfilled) != 1 {
		t.Fatalf("未满足数 = %d, 期望 1", len(result.Unfulfilled))
	}

	uf := result.Unfulfilled[0]
	if uf.Day != "wednesday" || uf.Required != 2 || uf.Assigned != 0 || uf.Shortfall != 2 {
		t.Errorf("未满足记录 = %+v", uf)
	}
	if result.Statistics.UnfulfilledSlots != 1 || result.Statistics.AssignedSlots != 1 {
		t.Errorf("统计 = %+v", result.Statistics)
	}
	if result.Report.Summary.SuccessRate != 50 {
		t.Errorf("成功率 = %v, 期望 50", result.Report.Summary.SuccessRate)
	}
}

func TestWeeklySolver_PartialFulfillment(t *testing.T) {
	s := NewWeeklySolver(nil)
	deptID := uuid.New()

	// 需要 3 人只有 1 人可用
	input := &Input{
		CompanyID:    uuid.New(),
		DepartmentID: deptID,
		WeekStart:    testWeekStart,
		Requirements: []*model.ShiftRequirement{
			reqFor(deptID, map[string][]model.RequirementSlot{
				"friday": {reqSlot("friday", "09:00", "17:00", 3)},
			}),
		},
		Availabilities: []*model.WeeklyAvailability{
			availFor(uuid.New(), dayAvail("friday", "09:00", "17:00")),
		},
	}

	result, err := s.Solve(input)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Assignments) != 1 {
		t.Errorf("分配数 = %d, 期望 1", len(result.Assignments))
	}
	if len(result.Unfulfilled) != 1 {
		t.Fatalf("未满足数 = %d, 期望 1", len(result.Unfulfilled))
	}
	uf := result.Unfulfilled[0]
	if uf.Required != 3 || uf.Assigned != 1 || uf.Shortfall != 2 {
		t.Errorf("缺口记录 = %+v", uf)
	}
}

func TestWeeklySolver_OneShiftPerDay(t *testing.T) {
	s := NewWeeklySolver(nil)
	deptID := uuid.New()
	empID := uuid.New()

	// 同一员工申报覆盖两个不重叠的周一时段，一日一班策略只允许分配一次
	input := &Input{
		CompanyID:    uuid.New(),
		DepartmentID: deptID,
		WeekStart:    testWeekStart,
		Requirements: []*model.ShiftRequirement{
			reqFor(deptID, map[string][]model.RequirementSlot{
				"monday": {
					reqSlot("monday", "08:00", "12:00", 1),
					reqSlot("monday", "13:00", "17:00", 1),
				},
			}),
		},
		Availabilities: []*model.WeeklyAvailability{
			availFor(empID, map[string]*model.DayAvailability{
				"monday": {Available: true, Slots: []model.TimeSlot{
					{StartTime: "08:00", EndTime: "12:00", StartDay: "monday", EndDay: "monday"},
					{StartTime: "13:00", EndTime: "17:00", StartDay: "monday", EndDay: "monday"},
				}},
			}),
		},
	}

	result, err := s.Solve(input)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Assignments) != 1 {
		t.Fatalf("分配数 = %d, 期望 1（一日一班）", len(result.Assignments))
	}
	// 更早的时段先挑人
	if result.Assignments[0].StartTime != "08:00" {
		t.Errorf("应先满足更早的时段: %s", result.Assignments[0].StartTime)
	}
	if len(result.Unfulfilled) != 1 {
		t.Errorf("下午时段应记录缺口: %v", result.Unfulfilled)
	}
	if len(result.Conflicts) != 0 {
		t.Errorf("不应产生冲突: %v", result.Conflicts)
	}
}

func TestWeeklySolver_CrossDayIndependence(t *testing.T) {
	s := NewWeeklySolver(nil)
	deptID := uuid.New()
	empID := uuid.New()

	// 同一员工可以在不同日各分配一班
	days := map[string]*model.DayAvailability{
		"monday":  {Available: true, Slots: []model.TimeSlot{{StartTime: "09:00", EndTime: "17:00", StartDay: "monday", EndDay: "monday"}}},
		"tuesday": {Available: true, Slots: []model.TimeSlot{{StartTime: "09:00", EndTime: "17:00", StartDay: "tuesday", EndDay: "tuesday"}}},
	}

	input := &Input{
		CompanyID:    uuid.New(),
		DepartmentID: deptID,
		WeekStart:    testWeekStart,
		Requirements: []*model.ShiftRequirement{
			reqFor(deptID, map[string][]model.RequirementSlot{
				"monday":  {reqSlot("monday", "09:00", "17:00", 1)},
				"tuesday": {reqSlot("tuesday", "09:00", "17:00", 1)},
			}),
		},
		Availabilities: []*model.WeeklyAvailability{availFor(empID, days)},
	}

	result, err := s.Solve(input)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Assignments) != 2 {
		t.Fatalf("分配数 = %d, 期望 2", len(result.Assignments))
	}

	schedules := result.EmployeeSchedules()
	list := schedules[empID]
	if len(list) != 2 {
		t.Fatalf("员工班表条数 = %d, 期望 2", len(list))
	}
	if !sort.SliceIsSorted(list, func(i, j int) bool {
		return list[i].StartMinutes < list[j].StartMinutes
	}) {
		t.Error("员工班表应按周时间轴升序")
	}
}

func TestWeeklySolver_InvalidInput(t *testing.T) {
	s := NewWeeklySolver(nil)
	deptID := uuid.New()

	tests := []struct {
		name  string
		input *Input
	}{
		{name: "空输入", input: nil},
		{
			name: "周起始非周日",
			input: &Input{
				DepartmentID: deptID,
				WeekStart:    "2026-01-05",
			},
		},
		{
			name: "重复可用性记录",
			input: func() *Input {
				empID := uuid.New()
				return &Input{
					DepartmentID: deptID,
					WeekStart:    testWeekStart,
					Availabilities: []*model.WeeklyAvailability{
						availFor(empID, dayAvail("monday", "09:00", "17:00")),
						availFor(empID, dayAvail("monday", "09:00", "17:00")),
					},
				}
			}(),
		},
		{
			name: "需求时段重叠",
			input: &Input{
				DepartmentID: deptID,
				WeekStart:    testWeekStart,
				Requirements: []*model.ShiftRequirement{
					reqFor(deptID, map[string][]model.RequirementSlot{
						"monday": {
							reqSlot("monday", "09:00", "17:00", 1),
							reqSlot("monday", "16:00", "20:00", 1),
						},
					}),
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.Solve(tt.input)
			if err == nil {
				t.Fatal("应返回错误")
			}
			if result.State != StateFailed {
				t.Errorf("状态 = %q, 期望 failed", result.State)
			}
		})
	}
}

func TestWeeklySolver_TypeOverrideCounted(t *testing.T) {
	s := NewWeeklySolver(nil)
	deptID := uuid.New()
	empID := uuid.New()

	// 申报夜班但 09:00 开始，推断覆盖为白班
	days := map[string]*model.DayAvailability{
		"monday": {Available: true, Slots: []model.TimeSlot{
			{StartTime: "09:00", EndTime: "17:00", StartDay: "monday", EndDay: "monday", ShiftType: model.ShiftNight},
		}},
	}

	input := &Input{
		CompanyID:    uuid.New(),
		DepartmentID: deptID,
		WeekStart:    testWeekStart,
		Requirements: []*model.ShiftRequirement{
			reqFor(deptID, map[string][]model.RequirementSlot{
				"monday": {reqSlot("monday", "09:00", "17:00", 1)},
			}),
		},
		Availabilities: []*model.WeeklyAvailability{availFor(empID, days)},
	}

	result, err := s.Solve(input)
	if err != nil {
		t.Fatal(err)
	}
	if result.Statistics.TypeOverrides != 1 {
		t.Errorf("类型覆盖数 = %d, 期望 1", result.Statistics.TypeOverrides)
	}
	// 覆盖后仍与白班需求匹配
	if len(result.Assignments) != 1 {
		t.Errorf("分配数 = %d, 期望 1", len(result.Assignments))
	}
}
