package domain

import "time"

type User struct {
	UserID    string    `json:"id" dynamodbav:"userId"`
	Username  string    `json:"username" dynamodbav:"username"`
	Email     string    `json:"email" dynamodbav:"email"`
	IsActive  bool      `json:"isActive" dynamodbav:"isActive"`
	FCMToken  *string   `json:"fcmToken" dynamodbav:"fcmToken"`
	CreatedAt time.Time `json:"created" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updatedAt"`
}
