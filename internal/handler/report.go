package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/zhoupai/zhoupai/internal/database"
	"github.com/zhoupai/zhoupai/internal/repository"
	"github.com/zhoupai/zhoupai/pkg/errors"
	"github.com/zhoupai/zhoupai/pkg/model"
	"github.com/zhoupai/zhoupai/pkg/stats"
)

// ReportHandler 统计报告处理器
type ReportHandler struct {
	assignRepo *repository.AssignmentRepository
	analyzer   *stats.GapAnalyzer
	builder    *stats.ReportBuilder
}

// NewReportHandler 创建统计报告处理器
func NewReportHandler(db *database.DB) *ReportHandler {
	h := &ReportHandler{
		analyzer: stats.NewGapAnalyzer(),
		builder:  stats.NewReportBuilder(),
	}
	if db != nil {
		h.assignRepo = repository.NewAssignmentRepository(db)
	}
	return h
}

// CapacityRequest 容量分析请求
type CapacityRequest struct {
	Requirements   []*model.ShiftRequirement   `json:"requirements"`
	Availabilities []*model.WeeklyAvailability `json:"availabilities"`
}

// Capacity 运行前容量缺口分析
// 对比每日需求人时与申报人时，输出覆盖分类和补员建议
func (h *ReportHandler) Capacity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req CapacityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	if len(req.Requirements) == 0 {
		respondError(w, errors.New(errors.CodeInvalidInput, "需求列表不能为空"))
		return
	}

	analysis, err := h.analyzer.Analyze(req.Requirements, req.Availabilities)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "容量分析失败"))
		return
	}

	respondJSON(w, http.StatusOK, analysis)
}

// UtilizationRequest 独立利用率计算请求（POST 路径）
type UtilizationRequest struct {
	Assignments []*model.ShiftAssignment `json:"assignments"`
}

// UtilizationResponse 利用率报告响应
type UtilizationResponse struct {
	DepartmentID   string                      `json:"department_id,omitempty"`
	WeekStart      string                      `json:"week_start,omitempty"`
	Employees      []stats.EmployeeUtilization `json:"employees"`
	DailyBreakdown []stats.DayBreakdown        `json:"daily_breakdown"`
	TotalHours     float64                     `json:"total_hours"`
}

// Utilization 员工利用率报告
//
// POST：对请求体内的分配做独立计算，不触库；
// GET：按 department_id + week_start 查询已落库的排班。
func (h *ReportHandler) Utilization(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		h.utilizationInline(w, r)
		return
	}
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET或POST方法"))
		return
	}
	if h.assignRepo == nil {
		respondError(w, errors.New(errors.CodeDatabaseError, "未配置数据库，无法查询历史排班"))
		return
	}

	departmentID, err := uuid.Parse(r.URL.Query().Get("department_id"))
	if err != nil {
		respondError(w, errors.InvalidInput("department_id", "部门ID格式无效"))
		return
	}
	weekStart := r.URL.Query().Get("week_start")
	if err := model.ValidateWeekStart(weekStart); err != nil {
		respondError(w, errors.InvalidInput("week_start", err.Error()))
		return
	}

	assignments, err := h.assignRepo.ListByWeek(r.Context(), departmentID, weekStart)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "查询排班分配失败"))
		return
	}

	report := h.builder.Build(nil, assignments, nil, 0)

	respondJSON(w, http.StatusOK, UtilizationResponse{
		DepartmentID:   departmentID.String(),
		WeekStart:      weekStart,
		Employees:      report.EmployeeUtilization,
		DailyBreakdown: report.DailyBreakdown,
		TotalHours:     report.Summary.TotalHours,
	})
}

// utilizationInline 对请求体内的分配做独立利用率计算
func (h *ReportHandler) utilizationInline(w http.ResponseWriter, r *http.Request) {
	var req UtilizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if len(req.Assignments) == 0 {
		respondError(w, errors.New(errors.CodeInvalidInput, "分配列表不能为空"))
		return
	}

	report := h.builder.Build(nil, req.Assignments, nil, 0)

	respondJSON(w, http.StatusOK, UtilizationResponse{
		Employees:      report.EmployeeUtilization,
		DailyBreakdown: report.DailyBreakdown,
		TotalHours:     report.Summary.TotalHours,
	})
}
