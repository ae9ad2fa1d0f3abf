package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dvkotov/kidswap/models"
	"github.com/dvkotov/kidswap/utils"
)

const tokenTTL = time.Hour

// AuthController handles account registration and login.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// userPayload is the public shape of an account, never exposing the hash.
type userPayload struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Location string `json:"location"`
}

func publicUser(u models.User) userPayload {
	return userPayload{ID: u.ID, Email: u.Email, Location: u.Location}
}

// Register handles local account registration with bcrypt hashing.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Location string `json:"location" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	location := strings.TrimSpace(strings.ToLower(req.Location))
	if location == "" {
		utils.Error(ctx, http.StatusBadRequest, 40002, "location cannot be empty")
		return
	}

	var existing models.User
	if err := a.db.Where("email = ?", email).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "email already registered")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to check account")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to hash password")
		return
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Location:     location,
		Children:     "[]",
	}
	if err := a.db.Create(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to create account")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Location, tokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{"user": publicUser(user), "token": token})
}

// Login verifies credentials and issues a fresh token. Unknown email and
// wrong password answer identically so accounts cannot be enumerated.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))

	var user models.User
	if err := a.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusBadRequest, 40011, "invalid email or password")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to load account")
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusBadRequest, 40011, "invalid email or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Location, tokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{"user": publicUser(user), "token": token})
}
