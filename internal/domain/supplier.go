package domain

import "time"

type Supplier struct {
	SupplierID string    `json:"id" dynamodbav:"supplierId"`
	CompanyID  string    `json:"companyId" dynamodbav:"companyId"`
	Name       string    `json:"name" dynamodbav:"name"`
	CreatedAt  time.Time `json:"created" dynamodbav:"createdAt"`
	UpdatedAt  time.Time `json:"updated" dynamodbav:"updatedAt"`
}
