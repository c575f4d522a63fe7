package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLogMeal_BadDate(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/meals", strings.NewReader(
		`{"name":"Lunch","meal_type":"lunch","date":"May 20","foods":[{"food_id":"x","quantity":10}]}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userID", uint(3))

	(&MealController{}).LogMeal(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "date must be YYYY-MM-DD or RFC 3339")
}
