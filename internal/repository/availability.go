// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zhoupai/zhoupai/pkg/model"
)

// AvailabilityRepository 周可用性仓储
type AvailabilityRepository struct {
	db DB
}

// NewAvailabilityRepository 创建周可用性仓储
func NewAvailabilityRepository(db DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// Create 创建周可用性申报
// (employee_id, week_start) 上有唯一约束，重复申报走 Update
func (r *AvailabilityRepository) Create(ctx context.Context, avail *model.WeeklyAvailability) error {
	if avail.ID == uuid.Nil {
		avail.ID = uuid.New()
	}
	now := time.Now()
	avail.CreatedAt = now
	avail.UpdatedAt = now

	daysJSON, err := json.Marshal(avail.Days)
	if err != nil {
		return fmt.Errorf("序列化可用时段失败: %w", err)
	}

	query := `
		INSERT INTO weekly_availabilities (
			id, employee_id, company_id, week_start, days, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.db.ExecContext(ctx, query,
		avail.ID, avail.EmployeeID, avail.CompanyID, avail.WeekStart,
		daysJSON, avail.CreatedAt, avail.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建周可用性失败: %w", err)
	}

	return nil
}

// GetByEmployeeWeek 获取员工某周的可用性申报
func (r *AvailabilityRepository) GetByEmployeeWeek(ctx context.Context, employeeID uuid.UUID, weekStart string) (*model.WeeklyAvailability, error) {
	query := `
		SELECT id, employee_id, company_id, week_start, days, created_at, updated_at
		FROM weekly_availabilities
		WHERE employee_id = $1 AND week_start = $2 AND deleted_at IS NULL
	`

	return r.scanAvailability(r.db.QueryRowContext(ctx, query, employeeID, weekStart))
}

// ListByWeek 获取公司某周的全部可用性申报，按员工ID升序保证运行输入顺序稳定
func (r *AvailabilityRepository) ListByWeek(ctx context.Context, companyID uuid.UUID, weekStart string) ([]*model.WeeklyAvailability, error) {
	query := `
		SELECT id, employee_id, company_id, week_start, days, created_at, updated_at
		FROM weekly_availabilities
		WHERE company_id = $1 AND week_start = $2 AND deleted_at IS NULL
		ORDER BY employee_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, companyID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("查询周可用性失败: %w", err)
	}
	defer rows.Close()

	var availabilities []*model.WeeklyAvailability
	for rows.Next() {
		avail := &model.WeeklyAvailability{}
		var daysJSON []byte
		if err := rows.Scan(
			&avail.ID, &avail.EmployeeID, &avail.CompanyID, &avail.WeekStart,
			&daysJSON, &avail.CreatedAt, &avail.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描行失败: %w", err)
		}
		if err := json.Unmarshal(daysJSON, &avail.Days); err != nil {
			return nil, fmt.Errorf("解析可用时段失败: %w", err)
		}
		availabilities = append(availabilities, avail)
	}

	return availabilities, nil
}

// Update 更新可用性申报
func (r *AvailabilityRepository) Update(ctx context.Context, avail *model.WeeklyAvailability) error {
	avail.UpdatedAt = time.Now()

	daysJSON, err := json.Marshal(avail.Days)
	if err != nil {
		return fmt.Errorf("序列化可用时段失败: %w", err)
	}

	query := `
		UPDATE weekly_availabilities SET days = $2, updated_at = $3
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, avail.ID, daysJSON, avail.UpdatedAt)
	if err != nil {
		return fmt.Errorf("更新周可用性失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("周可用性记录不存在")
	}

	return nil
}

// Delete 软删除可用性申报
func (r *AvailabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE weekly_availabilities SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("删除周可用性失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("周可用性记录不存在")
	}

	return nil
}

// scanAvailability 扫描单行可用性记录
func (r *AvailabilityRepository) scanAvailability(row *sql.Row) (*model.WeeklyAvailability, error) {
	avail := &model.WeeklyAvailability{}
	var daysJSON []byte
	err := row.Scan(
		&avail.ID, &avail.EmployeeID, &avail.CompanyID, &avail.WeekStart,
		&daysJSON, &avail.CreatedAt, &avail.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询周可用性失败: %w", err)
	}

	if err := json.Unmarshal(daysJSON, &avail.Days); err != nil {
		return nil, fmt.Errorf("解析可用时段失败: %w", err)
	}
	return avail, nil
}
