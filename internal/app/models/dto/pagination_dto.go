package dto

import "github.com/yigit/buspass/internal/app/models"

// PaginationInfo describes one page of a listing
type PaginationInfo struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	PageSize     int   `json:"pageSize"`
	TotalItems   int64 `json:"totalItems"`
	HasNext      bool  `json:"hasNext"`
	HasPrevious  bool  `json:"hasPrevious"`
	NextPage     int   `json:"nextPage,omitempty"`
	PreviousPage int   `json:"previousPage,omitempty"`
}

// StudentPage is one page of the student listing
type StudentPage struct {
	Query      string
	Students   []*models.Student
	Pagination PaginationInfo
}
