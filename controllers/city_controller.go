package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dvkotov/kidswap/data"
	"github.com/dvkotov/kidswap/utils"
)

const maxCityResults = 50

// CityController serves the static city lookup used by location pickers.
type CityController struct{}

// NewCityController creates a CityController.
func NewCityController() *CityController {
	return &CityController{}
}

// Search returns up to 50 city names matching the search substring,
// case-insensitively. An empty search returns the head of the list.
func (c *CityController) Search(ctx *gin.Context) {
	search := strings.ToLower(strings.TrimSpace(ctx.Query("search")))

	matched := make([]string, 0, maxCityResults)
	for _, city := range data.Cities {
		if search == "" || strings.Contains(strings.ToLower(city), search) {
			matched = append(matched, city)
			if len(matched) == maxCityResults {
				break
			}
		}
	}

	utils.Success(ctx, matched)
}
