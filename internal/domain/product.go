package domain

import "time"

// Product references its Supplier by id. The store has no foreign-key
// constraints; referential integrity is restored by cascade cleanup when a
// supplier is deleted.
type Product struct {
	ProductID  string    `json:"id" dynamodbav:"productId"`
	CompanyID  string    `json:"companyId" dynamodbav:"companyId"`
	SupplierID string    `json:"supplierId" dynamodbav:"supplierId"`
	Name       string    `json:"name" dynamodbav:"name"`
	CreatedAt  time.Time `json:"created" dynamodbav:"createdAt"`
	UpdatedAt  time.Time `json:"updated" dynamodbav:"updatedAt"`
}
