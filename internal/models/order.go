package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusContacted OrderStatus = "contacted"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// orderTransitions is the staff-side progression. completed and
// cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusContacted, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusContacted: {OrderStatusCompleted, OrderStatusCancelled},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusContacted, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID   `gorm:"type:uuid;index;not null" json:"user_id"`
	ProjectID uint        `gorm:"index;not null" json:"project_id"`
	Status    OrderStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Notes     string      `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User    *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Project *Project     `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Review  *OrderReview `gorm:"foreignKey:OrderID" json:"review,omitempty"`
}
