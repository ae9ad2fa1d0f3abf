package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dvkotov/kidswap/config"
	"github.com/dvkotov/kidswap/models"
	"github.com/dvkotov/kidswap/utils"
)

// UserController serves the authenticated profile: reading it, editing the
// children list, and full account deletion with cascade.
type UserController struct {
	db *gorm.DB
}

// NewUserController creates a UserController.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

type profilePayload struct {
	ID       uint           `json:"id"`
	Email    string         `json:"email"`
	Location string         `json:"location"`
	Children []models.Child `json:"children"`
}

// Me returns the profile together with the user's own announcements.
func (u *UserController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := u.db.Take(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40402, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load profile")
		return
	}

	var ads []models.Announcement
	if err := u.db.Where("user_id = ?", userID).Order("id DESC").Find(&ads).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load announcements")
		return
	}

	utils.Success(ctx, gin.H{
		"user": profilePayload{
			ID:       user.ID,
			Email:    user.Email,
			Location: user.Location,
			Children: user.ChildList(),
		},
		"announcements": ads,
	})
}

// UpdateMe replaces the children list on the profile. The list is validated
// at the boundary before it is serialized into the column.
func (u *UserController) UpdateMe(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	// pointer so an empty list (clearing all children) still binds
	var req struct {
		Children *[]models.Child `json:"children" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	var user models.User
	if err := u.db.Take(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40402, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to load profile")
		return
	}

	if err := user.SetChildList(*req.Children); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, err.Error())
		return
	}

	if err := u.db.Model(&user).Update("children", user.Children).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to update profile")
		return
	}

	utils.Success(ctx, profilePayload{
		ID:       user.ID,
		Email:    user.Email,
		Location: user.Location,
		Children: user.ChildList(),
	})
}

// DeleteMe removes the account and everything it owns: each announcement's
// stored files, the announcement rows, then the user row. Files go first,
// matching the announcement delete ordering.
func (u *UserController) DeleteMe(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var ads []models.Announcement
	if err := u.db.Where("user_id = ?", userID).Find(&ads).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to load announcements")
		return
	}

	cfg := config.Get()
	for _, ad := range ads {
		utils.RemovePublicFiles(cfg.UploadDir, ad.ImageList())
	}

	if err := u.db.Where("user_id = ?", userID).Delete(&models.Announcement{}).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to delete announcements")
		return
	}
	if err := u.db.Delete(&models.User{}, userID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50046, "failed to delete account")
		return
	}

	utils.InvalidateByPrefix("cache:ads:")
	utils.InvalidateByPrefix("cache:ad:detail:")
	utils.Success(ctx, gin.H{"message": "account deleted"})
}
