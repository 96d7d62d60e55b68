// File: /utils/response.go
package utils

import (
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Page       int         `json:"page"`
	Count      int         `json:"count"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
}

func SendError(c *gin.Context, status int, err string) {
	c.JSON(status, ErrorResponse{
		Error: err,
		Code:  status,
	})
}

func SendPaginated(c *gin.Context, data interface{}, page, count int, total int64) {
	totalPages := int((total + int64(count) - 1) / int64(count))

	c.JSON(200, PaginatedResponse{
		Data:       data,
		Page:       page,
		Count:      count,
		Total:      total,
		TotalPages: totalPages,
	})
}
