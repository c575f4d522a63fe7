package controllers

import (
	"net/http"

	"github.com/FlowDomain/NutriLog/services"
	"github.com/gin-gonic/gin"
)

type MealController struct {
	Svc *services.MealService
}

func NewMealController(svc *services.MealService) *MealController {
	return &MealController{Svc: svc}
}

func (h *MealController) LogMeal(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var body services.CreateMealInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, result, err := h.Svc.AddMeal(c.Request.Context(), uid, body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"meal": meal, "grade_result": result})
}

// GET /meals?date=YYYY-MM-DD or ?startDate=&endDate=
func (h *MealController) ListMeals(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var q services.MealQuery
	if q.Date, ok = optionalDate(c, "date"); !ok {
		return
	}
	if q.Start, ok = optionalDate(c, "startDate"); !ok {
		return
	}
	if q.End, ok = optionalDate(c, "endDate"); !ok {
		return
	}

	meals, err := h.Svc.ListMeals(c.Request.Context(), uid, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meals)
}

func (h *MealController) GetMeal(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	meal, err := h.Svc.GetMeal(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *MealController) DeleteMeal(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteMeal(c.Request.Context(), uid, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Meal deleted"})
}
