package school

import "time"

type CreateSchoolRequest struct {
	SchoolID    string   `json:"school_id" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Address     *string  `json:"address,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	WorkingDays []string `json:"working_days,omitempty"` // defaults to Mon-Sat
}

type UpdateWorkingDaysRequest struct {
	WorkingDays []string `json:"working_days" binding:"required"`
}

type SchoolResponse struct {
	SchoolID    string    `json:"school_id"`
	Name        string    `json:"name"`
	Address     *string   `json:"address,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	WorkingDays []string  `json:"working_days"`
	CreatedAt   time.Time `json:"created_at"`
}
