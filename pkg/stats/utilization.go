package stats

import (
	"sort"

	"github.com/google/uuid"

	"github.com/zhoupai/zhoupai/pkg/model"
)

// EmployeeUtilization 单个员工的本周利用率
type EmployeeUtilization struct {
	EmployeeID        uuid.UUID `json:"employee_id"`
	TotalHours        float64   `json:"total_hours"`
	ShiftCount        int       `json:"shift_count"`
	AverageShiftHours float64   `json:"average_shift_hours"`
}

// DayBreakdown 单日结果明细
type DayBreakdown struct {
	Day           string  `json:"day"`
	Assignments   int     `json:"assignments"`
	AssignedHours float64 `json:"assigned_hours"`
	Unfulfilled   int     `json:"unfulfilled"`
}

// Summary 整周结果摘要
type Summary struct {
	TotalAssignments int     `json:"total_assignments"`
	TotalHours       float64 `json:"total_hours"`
	EmployeeCount    int     `json:"employee_count"`
	AssignedSlots    int     `json:"assigned_slots"`
	UnfulfilledSlots int     `json:"unfulfilled_slots"`
	SuccessRate      float64 `json:"success_rate"` // 已满足时段 / 总时段 (%)
}

// Report 排班运行报告
type Report struct {
	Summary             Summary               `json:"summary"`
	DailyBreakdown      []DayBreakdown        `json:"daily_breakdown"`
	EmployeeUtilization []EmployeeUtilization `json:"employee_utilization"`
	Recommendations     []string              `json:"recommendations"`
	Capacity            *CapacityAnalysis     `json:"capacity,omitempty"`
}

// ReportBuilder 报告构建器
type ReportBuilder struct{}

// NewReportBuilder 创建报告构建器
func NewReportBuilder() *ReportBuilder {
	return &ReportBuilder{}
}

// Build 汇总运行结果生成报告
//
// totalSlots 是本次运行处理过的需求时段总数，
// 成功率 = (totalSlots - 未满足数) / totalSlots。
// 员工利用率按员工ID字典序输出，保证报告可复现。
func (b *ReportBuilder) Build(capacity *CapacityAnalysis, assignments []*model.ShiftAssignment, unfulfilled []model.UnfulfilledRequirement, totalSlots int) *Report {
	report := &Report{
		DailyBreakdown: make([]DayBreakdown, 0, model.DaysPerWeek),
		Capacity:       capacity,
	}

	byDay := make(map[string]*DayBreakdown)
	for _, day := range model.WeekDays() {
		byDay[day] = &DayBreakdown{Day: day}
	}

	utilByEmployee := make(map[uuid.UUID]*EmployeeUtilization)

	for _, a := range assignments {
		if d, ok := byDay[a.Day]; ok {
			d.Assignments++
			d.AssignedHours += a.Hours
		}

		u, ok := utilByEmployee[a.EmployeeID]
		if !ok {
			u = &EmployeeUtilization{EmployeeID: a.EmployeeID}
			utilByEmployee[a.EmployeeID] = u
		}
		u.TotalHours += a.Hours
		u.ShiftCount++

		report.Summary.TotalHours += a.Hours
	}

	for _, uf := range unfulfilled {
		if d, ok := byDay[uf.Day]; ok {
			d.Unfulfilled++
		}
	}

	for _, day := range model.WeekDays() {
		report.DailyBreakdown = append(report.DailyBreakdown, *byDay[day])
	}

	for _, u := range utilByEmployee {
		if u.ShiftCount > 0 {
			u.AverageShiftHours = u.TotalHours / float64(u.ShiftCount)
		}
		report.EmployeeUtilization = append(report.EmployeeUtilization, *u)
	}
	sort.Slice(report.EmployeeUtilization, func(i, j int) bool {
		return report.EmployeeUtilization[i].EmployeeID.String() < report.EmployeeUtilization[j].EmployeeID.String()
	})

	report.Summary.TotalAssignments = len(assignments)
	report.Summary.EmployeeCount = len(utilByEmployee)
	report.Summary.UnfulfilledSlots = len(unfulfilled)
	report.Summary.AssignedSlots = totalSlots - len(unfulfilled)
	if report.Summary.AssignedSlots < 0 {
		report.Summary.AssignedSlots = 0
	}
	if totalSlots > 0 {
		report.Summary.SuccessRate = float64(report.Summary.AssignedSlots) / float64(totalSlots) * 100
	} else {
		report.Summary.SuccessRate = 100
	}

	if capacity != nil {
		report.Recommendations = append(report.Recommendations, capacity.Recommendations...)
	}

	return report
}
