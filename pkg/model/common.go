// Package model 定义排班引擎的核心数据模型
package model

import (
	"time"

	"github.com/google/uuid"
)

// ShiftType 班次类型标签
type ShiftType string

const (
	ShiftDay   ShiftType = "day"   // 白班
	ShiftNight ShiftType = "night" // 夜班
)

// BaseModel 基础模型（包含通用字段）
type BaseModel struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// NewBaseModel 创建新的基础模型
func NewBaseModel() BaseModel {
	now := time.Now()
	return BaseModel{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Employee 员工（引擎只使用身份和偏好信息，人事字段由外部系统维护）
// 公司与部门主数据同样由外部系统维护，这里只以 ID 引用
type Employee struct {
	BaseModel
	CompanyID    uuid.UUID `json:"company_id" db:"company_id"`
	DepartmentID uuid.UUID `json:"department_id" db:"department_id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email,omitempty" db:"email"`
	Status       string    `json:"status" db:"status"` // active/inactive
}

// IsActive 检查员工是否在职
func (e *Employee) IsActive() bool {
	return e.Status == "active"
}
