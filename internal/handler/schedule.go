// Package handler 提供HTTP请求处理器
package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/zhoupai/zhoupai/internal/database"
	"github.com/zhoupai/zhoupai/internal/metrics"
	"github.com/zhoupai/zhoupai/internal/repository"
	"github.com/zhoupai/zhoupai/pkg/errors"
	"github.com/zhoupai/zhoupai/pkg/model"
	"github.com/zhoupai/zhoupai/pkg/scheduler/interval"
	"github.com/zhoupai/zhoupai/pkg/scheduler/matcher"
	"github.com/zhoupai/zhoupai/pkg/scheduler/solver"
	"github.com/zhoupai/zhoupai/pkg/stats"
	"github.com/zhoupai/zhoupai/pkg/validator"
)

// ScheduleHandler 排班处理器
//
// db 为空时以纯计算模式工作：输入全部来自请求体，结果不落库。
type ScheduleHandler struct {
	db        *database.DB
	availRepo *repository.AvailabilityRepository
	reqRepo   *repository.RequirementRepository
	empRepo   *repository.EmployeeRepository
	engineCfg *matcher.Config
}

// NewScheduleHandler 创建排班处理器
func NewScheduleHandler(db *database.DB, engineCfg *matcher.Config) *ScheduleHandler {
	h := &ScheduleHandler{db: db, engineCfg: engineCfg}
	if db != nil {
		h.availRepo = repository.NewAvailabilityRepository(db)
		h.reqRepo = repository.NewRequirementRepository(db)
		h.empRepo = repository.NewEmployeeRepository(db)
	}
	return h
}

// GenerateRequest 排班生成请求
// 可用性与需求可以内联提供，缺省时按 (公司, 部门, 周) 从库中取
type GenerateRequest struct {
	CompanyID      uuid.UUID                   `json:"company_id"`
	DepartmentID   uuid.UUID                   `json:"department_id"`
	WeekStart      string                      `json:"week_start"`
	Availabilities []*model.WeeklyAvailability `json:"availabilities,omitempty"`
	Requirements   []*model.ShiftRequirement   `json:"requirements,omitempty"`
	Persist        bool                        `json:"persist,omitempty"`
}

// GenerateResponse 排班生成响应
type GenerateResponse struct {
	Success     bool                                   `json:"success"`
	RunID       string                                 `json:"run_id"`
	State       solver.RunState                        `json:"state"`
	Assignments []*model.ShiftAssignment               `json:"assignments"`
	Conflicts   []validator.Conflict                   `json:"conflicts,omitempty"`
	Unfulfilled []model.UnfulfilledRequirement         `json:"unfulfilled,omitempty"`
	Report      *stats.Report                          `json:"report,omitempty"`
	Statistics  solver.Statistics                      `json:"statistics"`
	Duration    string                                 `json:"duration"`
	Schedules   map[uuid.UUID][]*model.ShiftAssignment `json:"employee_schedules,omitempty"`
}

// Generate 生成整周排班
func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	if err := h.validateGenerateRequest(&req); err != nil {
		respondError(w, err)
		return
	}

	// 内联缺省时从库中取一次性快照
	if len(req.Availabilities) == 0 && h.availRepo != nil {
		availabilities, err := h.availRepo.ListByWeek(r.Context(), req.CompanyID, req.WeekStart)
		if err != nil {
			respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "读取周可用性失败"))
			return
		}
		// 公司级快照里会混入其他部门和已离职员工的申报，按部门在职名单收窄
		employees, err := h.empRepo.ListActiveByDepartment(r.Context(), req.DepartmentID)
		if err != nil {
			respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "读取部门员工失败"))
			return
		}
		req.Availabilities = filterByActiveEmployees(availabilities, employees)
	}
	if len(req.Requirements) == 0 && h.reqRepo != nil {
		requirements, err := h.reqRepo.ListByDepartment(r.Context(), req.DepartmentID)
		if err != nil {
			respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "读取班次需求失败"))
			return
		}
		req.Requirements = requirements
	}

	s := solver.NewWeeklySolver(h.engineCfg)
	result, err := s.Solve(&solver.Input{
		CompanyID:      req.CompanyID,
		DepartmentID:   req.DepartmentID,
		WeekStart:      req.WeekStart,
		Requirements:   req.Requirements,
		Availabilities: req.Availabilities,
	})

	h.recordRunMetrics(req.DepartmentID, result, err)

	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeEngineRunFailed, "排班运行失败"))
		return
	}

	// 结果整批落库，运行与持久化之间不存在部分写入
	if req.Persist && h.db != nil {
		if err := h.persistAssignments(r, req.DepartmentID, req.WeekStart, result.Assignments); err != nil {
			respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "保存排班结果失败"))
			return
		}
	}

	respondJSON(w, http.StatusOK, GenerateResponse{
		Success:     true,
		RunID:       result.RunID.String(),
		State:       result.State,
		Assignments: result.Assignments,
		Conflicts:   result.Conflicts,
		Unfulfilled: result.Unfulfilled,
		Report:      result.Report,
		Statistics:  result.Statistics,
		Duration:    result.Duration.String(),
		Schedules:   result.EmployeeSchedules(),
	})
}

// validateGenerateRequest 验证生成请求
func (h *ScheduleHandler) validateGenerateRequest(req *GenerateRequest) *errors.AppError {
	ve := &errors.ValidationErrors{}

	if req.CompanyID == uuid.Nil {
		ve.Add("company_id", "公司ID不能为空")
	}
	if req.DepartmentID == uuid.Nil {
		ve.Add("department_id", "部门ID不能为空")
	}
	if req.WeekStart == "" {
		ve.Add("week_start", "周起始日期不能为空")
	} else if err := model.ValidateWeekStart(req.WeekStart); err != nil {
		ve.Add("week_start", err.Error())
	}
	if len(req.Availabilities) == 0 && h.availRepo == nil {
		ve.Add("availabilities", "可用性列表不能为空")
	}
	if len(req.Requirements) == 0 && h.reqRepo == nil {
		ve.Add("requirements", "需求列表不能为空")
	}

	if ve.HasErrors() {
		return ve.ToAppError()
	}
	return nil
}

// filterByActiveEmployees 只保留在职员工名单内的可用性申报
func filterByActiveEmployees(availabilities []*model.WeeklyAvailability, employees []*model.Employee) []*model.WeeklyAvailability {
	active := make(map[uuid.UUID]bool, len(employees))
	for _, emp := range employees {
		active[emp.ID] = true
	}

	filtered := make([]*model.WeeklyAvailability, 0, len(availabilities))
	for _, avail := range availabilities {
		if active[avail.EmployeeID] {
			filtered = append(filtered, avail)
		}
	}
	return filtered
}

// persistAssignments 在事务内先清后写，保证重跑覆盖上一次结果
func (h *ScheduleHandler) persistAssignments(r *http.Request, departmentID uuid.UUID, weekStart string, assignments []*model.ShiftAssignment) error {
	return h.db.Transaction(r.Context(), func(tx *sql.Tx) error {
		repo := repository.NewAssignmentRepository(tx)
		if err := repo.DeleteByWeek(r.Context(), departmentID, weekStart); err != nil {
			return err
		}
		return repo.CreateBatch(r.Context(), assignments)
	})
}

// recordRunMetrics 上报运行指标
func (h *ScheduleHandler) recordRunMetrics(departmentID uuid.UUID, result *solver.Result, err error) {
	if result == nil {
		return
	}
	metrics.RecordEngineRun(err == nil, result.Duration)
	if err != nil {
		return
	}
	for _, uf := range result.Unfulfilled {
		metrics.RecordUnfulfilledSlot(uf.Day)
	}
	for _, c := range result.Conflicts {
		metrics.RecordConflict(string(c.Type))
	}
	metrics.RecordTypeOverrides(result.Statistics.TypeOverrides)
	if result.Report != nil {
		metrics.SetSlotSuccessRate(departmentID.String(), result.Report.Summary.SuccessRate)
	}
}

// ValidateRequest 排班冲突检查请求
type ValidateRequest struct {
	Assignments []AssignmentInput `json:"assignments"`
}

// AssignmentInput 排班输入
type AssignmentInput struct {
	EmployeeID uuid.UUID `json:"employee_id"`
	Day        string    `json:"day"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
}

// ValidateResponse 冲突检查响应
type ValidateResponse struct {
	Valid     bool                 `json:"valid"`
	Conflicts []validator.Conflict `json:"conflicts"`
}

// Validate 对一批排班做冲突检查
// 手工排班进入系统前走这里，维持同员工同日不重叠的约束
func (h *ScheduleHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	assignments := make([]*model.ShiftAssignment, 0, len(req.Assignments))
	for _, in := range req.Assignments {
		iv, err := interval.Normalize(in.StartTime, in.Day, in.EndTime, in.Day)
		if err != nil {
			respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "排班时间归一化失败"))
			return
		}
		assignments = append(assignments, &model.ShiftAssignment{
			BaseModel:    model.NewBaseModel(),
			EmployeeID:   in.EmployeeID,
			Day:          in.Day,
			StartTime:    in.StartTime,
			EndTime:      in.EndTime,
			StartMinutes: iv.Start,
			EndMinutes:   iv.End,
			Hours:        iv.Hours(),
		})
	}

	detector := validator.NewConflictDetector()
	conflicts := detector.DetectAll(assignments)

	respondJSON(w, http.StatusOK, ValidateResponse{
		Valid:     len(conflicts) == 0,
		Conflicts: conflicts,
	})
}

// RequirementsValidateRequest 需求登记校验请求
type RequirementsValidateRequest struct {
	Requirements []*model.ShiftRequirement `json:"requirements"`
}

// RequirementsValidateResponse 需求登记校验响应
type RequirementsValidateResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// ValidateRequirements 在需求登记边界做形状与重叠校验
func (h *ScheduleHandler) ValidateRequirements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req RequirementsValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	if len(req.Requirements) == 0 {
		respondError(w, errors.New(errors.CodeInvalidInput, "需求列表不能为空"))
		return
	}

	if err := validator.ValidateRequirements(req.Requirements); err != nil {
		respondJSON(w, http.StatusOK, RequirementsValidateResponse{
			Valid:   false,
			Message: err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, RequirementsValidateResponse{Valid: true})
}

// respondJSON 返回JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError 返回错误响应
func respondError(w http.ResponseWriter, err *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    err.Code,
		"message": err.Message,
		"details": err.Details,
	})
}
