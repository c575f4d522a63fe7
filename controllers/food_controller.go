package controllers

import (
	"net/http"
	"strconv"

	"github.com/FlowDomain/NutriLog/services"
	"github.com/gin-gonic/gin"
)

type FoodController struct {
	Svc *services.FoodService
}

func NewFoodController(svc *services.FoodService) *FoodController {
	return &FoodController{Svc: svc}
}

// GET /foods?search=&category=&includePublic=&includeSystem=&limit=
func (h *FoodController) List(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	foods, err := h.Svc.List(c.Request.Context(), uid, services.FoodFilter{
		Search:        c.Query("search"),
		Category:      c.Query("category"),
		IncludePublic: c.Query("includePublic") == "true",
		IncludeSystem: c.Query("includeSystem") != "false",
		Limit:         limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": foods, "count": len(foods)})
}

func (h *FoodController) Create(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var input services.FoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	food, err := h.Svc.Create(c.Request.Context(), uid, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, food)
}

func (h *FoodController) Get(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	food, err := h.Svc.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

func (h *FoodController) Update(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var input services.FoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	food, err := h.Svc.Update(c.Request.Context(), uid, c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

func (h *FoodController) Delete(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Food deleted"})
}

// POST /foods/recognize {"image_base64": "data:image/jpeg;base64,..."}
func (h *FoodController) Recognize(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var body struct {
		ImageBase64 string `json:"image_base64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.Svc.Recognize(c.Request.Context(), uid, body.ImageBase64)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
