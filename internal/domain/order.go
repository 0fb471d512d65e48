package domain

import "time"

// Order status values. Anything outside this set is ignored by the
// status-change handler so new statuses can be introduced without breaking it.
const (
	OrderStatusPending  = "pending"
	OrderStatusApproved = "approved"
	OrderStatusRejected = "rejected"
)

type Order struct {
	OrderID      string    `json:"id" dynamodbav:"orderId"`
	CompanyID    string    `json:"companyId" dynamodbav:"companyId"`
	EmployeeID   string    `json:"employeeId" dynamodbav:"employeeId"`
	EmployeeName string    `json:"employeeName" dynamodbav:"employeeName"`
	Status       string    `json:"status" dynamodbav:"status"`
	CreatedAt    time.Time `json:"created" dynamodbav:"createdAt"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updatedAt"`
}
