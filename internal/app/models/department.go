package models

// Department represents a department of an institute
type Department struct {
	ID          int64      `json:"id"`
	InstituteID int64      `json:"instituteId"`
	Name        string     `json:"name"`
	Code        string     `json:"code"`
	Institute   *Institute `json:"institute,omitempty"`
}

// Institute owns departments
type Institute struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}
