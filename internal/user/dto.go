// AngelaMos | 2026
// dto.go

package user

import (
	"fmt"
	"time"
)

const (
	apiPrefix  = "/api/v1"
	collection = apiPrefix + "/users"
)

type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=1,max=128"`
}

type UpdateTargetRequest struct {
	TargetDailyCalories *int `json:"target_daily_calories" validate:"required,min=0,max=100000"`
}

type Links struct {
	Self       string `json:"self"`
	Collection string `json:"collection"`
	Records    string `json:"records"`
	Roles      string `json:"roles"`
	Targets    string `json:"targets"`
}

type UserResponse struct {
	ID                  int64     `json:"id"`
	Email               string    `json:"email"`
	DateCreated         time.Time `json:"date_created"`
	DateModified        time.Time `json:"date_modified"`
	TargetDailyCalories int       `json:"target_daily_calories"`
	Links               Links     `json:"_links"`
}

type TargetResponse struct {
	ID                  int64 `json:"id"`
	TargetDailyCalories int   `json:"target_daily_calories"`
}

type TargetSettings struct {
	TargetDailyCalories int `json:"target_daily_calories"`
}

func UserLinks(id int64) Links {
	self := fmt.Sprintf("%s/%d", collection, id)
	return Links{
		Self:       self,
		Collection: collection,
		Records:    self + "/records",
		Roles:      self + "/roles",
		Targets:    self + "/targets",
	}
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:                  u.ID,
		Email:               u.Email,
		DateCreated:         u.DateCreated,
		DateModified:        u.DateModified,
		TargetDailyCalories: u.TargetDailyCalories,
		Links:               UserLinks(u.ID),
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}

func ToTargetResponse(u *User) TargetResponse {
	return TargetResponse{
		ID:                  u.ID,
		TargetDailyCalories: u.TargetDailyCalories,
	}
}
