package dto

// CreateSessionRequest approves a new intake for a department
type CreateSessionRequest struct {
	StartYear      int  `json:"startYear" binding:"required" example:"2025"`
	IntakeCapacity *int `json:"intakeCapacity" binding:"required" example:"60"`
}

// AdjustCapacityRequest changes a session's intake capacity
type AdjustCapacityRequest struct {
	IntakeCapacity *int `json:"intakeCapacity" binding:"required" example:"72"`
}

// PromoteRequest carries the mandatory audit reason for a promotion
type PromoteRequest struct {
	Reason string `json:"reason" example:"Semester 3 results published"`
}

// EnrollmentRequest records admissions (positive) or withdrawals (negative)
type EnrollmentRequest struct {
	Delta int `json:"delta" example:"5"`
}
