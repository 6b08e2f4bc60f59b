package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zhoupai/zhoupai/pkg/model"
)

// AssignmentRepository 排班分配仓储
//
// 引擎产出的分配在运行结束时一次性落库（事务内先清后写），
// 运行中途绝不写入部分结果。
type AssignmentRepository struct {
	db DB
}

// NewAssignmentRepository 创建排班分配仓储
func NewAssignmentRepository(db DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// CreateBatch 批量创建排班分配
func (r *AssignmentRepository) CreateBatch(ctx context.Context, assignments []*model.ShiftAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	var values []string
	var args []interface{}
	argIndex := 1

	now := time.Now()
	for _, a := range assignments {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		a.CreatedAt = now
		a.UpdatedAt = now

		values = append(values, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			argIndex, argIndex+1, argIndex+2, argIndex+3, argIndex+4, argIndex+5,
			argIndex+6, argIndex+7, argIndex+8, argIndex+9, argIndex+10, argIndex+11,
			argIndex+12,
		))
		args = append(args,
			a.ID, a.EmployeeID, a.DepartmentID, a.WeekStart, a.Day,
			a.StartTime, a.EndTime, a.StartMinutes, a.EndMinutes,
			a.Hours, a.Status, a.CreatedAt, a.UpdatedAt,
		)
		argIndex += 13
	}

	query := fmt.Sprintf(`
		INSERT INTO shift_assignments (
			id, employee_id, department_id, week_start, day,
			start_time, end_time, start_minutes, end_minutes,
			hours, status, created_at, updated_at
		) VALUES %s
	`, strings.Join(values, ", "))

	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("批量创建排班分配失败: %w", err)
	}

	return nil
}

// ListByWeek 获取部门某周的全部分配
func (r *AssignmentRepository) ListByWeek(ctx context.Context, departmentID uuid.UUID, weekStart string) ([]*model.ShiftAssignment, error) {
	query := `
		SELECT id, employee_id, department_id, week_start, day,
			start_time, end_time, start_minutes, end_minutes,
			hours, status, created_at, updated_at
		FROM shift_assignments
		WHERE department_id = $1 AND week_start = $2 AND deleted_at IS NULL
		ORDER BY start_minutes ASC, employee_id ASC
	`

	return r.queryAssignments(ctx, query, departmentID, weekStart)
}

// ListByEmployeeWeek 获取员工某周的全部分配，通知投递方按此取数
func (r *AssignmentRepository) ListByEmployeeWeek(ctx context.Context, employeeID uuid.UUID, weekStart string) ([]*model.ShiftAssignment, error) {
	query := `
		SELECT id, employee_id, department_id, week_start, day,
			start_time, end_time, start_minutes, end_minutes,
			hours, status, created_at, updated_at
		FROM shift_assignments
		WHERE employee_id = $1 AND week_start = $2 AND deleted_at IS NULL
		ORDER BY start_minutes ASC
	`

	return r.queryAssignments(ctx, query, employeeID, weekStart)
}

// DeleteByWeek 删除部门某周的全部分配，重跑引擎前清理上一次结果
func (r *AssignmentRepository) DeleteByWeek(ctx context.Context, departmentID uuid.UUID, weekStart string) error {
	query := `
		UPDATE shift_assignments SET deleted_at = $3
		WHERE department_id = $1 AND week_start = $2 AND deleted_at IS NULL
	`

	_, err := r.db.ExecContext(ctx, query, departmentID, weekStart, time.Now())
	if err != nil {
		return fmt.Errorf("删除排班分配失败: %w", err)
	}

	return nil
}

// queryAssignments 执行分配查询并扫描结果
func (r *AssignmentRepository) queryAssignments(ctx context.Context, query string, args ...interface{}) ([]*model.ShiftAssignment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询排班分配失败: %w", err)
	}
	defer rows.Close()

	var assignments []*model.ShiftAssignment
	for rows.Next() {
		a := &model.ShiftAssignment{}
		if err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.DepartmentID, &a.WeekStart, &a.Day,
			&a.StartTime, &a.EndTime, &a.StartMinutes, &a.EndMinutes,
			&a.Hours, &a.Status, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描行失败: %w", err)
		}
		assignments = append(assignments, a)
	}

	return assignments, nil
}
