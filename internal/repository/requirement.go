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

// RequirementRepository 班次需求仓储
type RequirementRepository struct {
	db DB
}

// NewRequirementRepository 创建班次需求仓储
func NewRequirementRepository(db DB) *RequirementRepository {
	return &RequirementRepository{db: db}
}

// Create 创建班次需求
func (r *RequirementRepository) Create(ctx context.Context, req *model.ShiftRequirement) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now

	daysJSON, err := json.Marshal(req.Days)
	if err != nil {
		return fmt.Errorf("序列化需求时段失败: %w", err)
	}

	query := `
		INSERT INTO shift_requirements (
			id, company_id, department_id, days, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.db.ExecContext(ctx, query,
		req.ID, req.CompanyID, req.DepartmentID, daysJSON, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建班次需求失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取班次需求
func (r *RequirementRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ShiftRequirement, error) {
	query := `
		SELECT id, company_id, department_id, days, created_at, updated_at
		FROM shift_requirements
		WHERE id = $1 AND deleted_at IS NULL
	`

	req := &model.ShiftRequirement{}
	var daysJSON []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID, &req.CompanyID, &req.DepartmentID, &daysJSON, &req.CreatedAt, &req.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询班次需求失败: %w", err)
	}

	if err := json.Unmarshal(daysJSON, &req.Days); err != nil {
		return nil, fmt.Errorf("解析需求时段失败: %w", err)
	}
	return req, nil
}

// ListByDepartment 获取部门的全部班次需求，按创建时间升序保证运行输入顺序稳定
func (r *RequirementRepository) ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*model.ShiftRequirement, error) {
	query := `
		SELECT id, company_id, department_id, days, created_at, updated_at
		FROM shift_requirements
		WHERE department_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, departmentID)
	if err != nil {
		return nil, fmt.Errorf("查询班次需求失败: %w", err)
	}
	defer rows.Close()

	var requirements []*model.ShiftRequirement
	for rows.Next() {
		req := &model.ShiftRequirement{}
		var daysJSON []byte
		if err := rows.Scan(
			&req.ID, &req.CompanyID, &req.DepartmentID, &daysJSON, &req.CreatedAt, &req.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描行失败: %w", err)
		}
		if err := json.Unmarshal(daysJSON, &req.Days); err != nil {
			return nil, fmt.Errorf("解析需求时段失败: %w", err)
		}
		requirements = append(requirements, req)
	}

	return requirements, nil
}

// Update 更新班次需求
func (r *RequirementRepository) Update(ctx context.Context, req *model.ShiftRequirement) error {
	req.UpdatedAt = time.Now()

	daysJSON, err := json.Marshal(req.Days)
	if err != nil {
		return fmt.Errorf("序列化需求时段失败: %w", err)
	}

	query := `
		UPDATE shift_requirements SET days = $2, updated_at = $3
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, req.ID, daysJSON, req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("更新班次需求失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("班次需求不存在")
	}

	return nil
}

// Delete 软删除班次需求
func (r *RequirementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE shift_requirements SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("删除班次需求失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("班次需求不存在")
	}

	return nil
}
