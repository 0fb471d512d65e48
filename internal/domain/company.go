package domain

import "time"

type Company struct {
	CompanyID string    `json:"id" dynamodbav:"companyId"`
	Name      string    `json:"name" dynamodbav:"name"`
	Admins    []string  `json:"admins" dynamodbav:"admins"`
	CreatedAt time.Time `json:"created" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updatedAt"`
}
