package controllers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dvkotov/kidswap/config"
	"github.com/dvkotov/kidswap/middleware"
	"github.com/dvkotov/kidswap/models"
	"github.com/dvkotov/kidswap/utils"
)

// AnnouncementController manages CRUD operations for listings, including the
// multipart image upload pipeline.
type AnnouncementController struct {
	db *gorm.DB
}

// NewAnnouncementController creates a new AnnouncementController instance.
func NewAnnouncementController(db *gorm.DB) *AnnouncementController {
	return &AnnouncementController{db: db}
}

// announcementColumns is the select list for public rows joined with the
// owner's email.
const announcementColumns = "announcements.*, users.email"

// List returns announcements filtered by optional search/age/city query
// parameters, newest id first, each row joined with the owner's email.
func (c *AnnouncementController) List(ctx *gin.Context) {
	search := strings.TrimSpace(ctx.Query("search"))
	age := strings.TrimSpace(ctx.Query("age"))
	city := strings.TrimSpace(ctx.Query("city"))

	// Cache only the unfiltered listing to avoid cache key explosion
	cacheable := search == "" && age == "" && city == ""
	if cacheable {
		if b, ok := utils.CacheGetBytes("cache:ads:list"); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	query := c.db.Table("announcements").
		Select(announcementColumns).
		Joins("JOIN users ON users.id = announcements.user_id")
	if search != "" {
		query = query.Where("LOWER(announcements.title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if age != "" {
		query = query.Where("announcements.target_info = ?", age)
	}
	if city != "" {
		query = query.Where("LOWER(announcements.location) LIKE ?", "%"+strings.ToLower(city)+"%")
	}

	var rows []models.AnnouncementWithEmail
	if err := query.Order("announcements.id DESC").Scan(&rows).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to list announcements")
		return
	}
	if rows == nil {
		rows = []models.AnnouncementWithEmail{}
	}

	if cacheable {
		wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: rows}
		utils.CacheSetJSON("cache:ads:list", wrapper, time.Hour)
	}
	utils.Success(ctx, rows)
}

// ListMy returns the authenticated owner's announcements, newest id first.
func (c *AnnouncementController) ListMy(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var rows []models.Announcement
	if err := c.db.Where("user_id = ?", userID).Order("id DESC").Find(&rows).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to list announcements")
		return
	}
	utils.Success(ctx, rows)
}

// Get returns a single announcement joined with the owner's email.
func (c *AnnouncementController) Get(ctx *gin.Context) {
	id, ok := numericParam(ctx, "id")
	if !ok {
		return
	}

	cacheKey := "cache:ad:detail:" + strconv.FormatUint(uint64(id), 10)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var row models.AnnouncementWithEmail
	err := c.db.Table("announcements").
		Select(announcementColumns).
		Joins("JOIN users ON users.id = announcements.user_id").
		Where("announcements.id = ?", id).
		Take(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "announcement not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load announcement")
		return
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: row}
	utils.CacheSetJSON(cacheKey, wrapper, time.Hour)
	utils.Success(ctx, row)
}

// Create persists a new announcement from a multipart form carrying the
// required text fields plus 1..5 image files. Every accepted file is resized
// and re-encoded; originals are discarded. Any transform failure rolls back
// all derivatives written for this request and nothing is persisted.
func (c *AnnouncementController) Create(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	title := utils.Sanitize(strings.TrimSpace(ctx.PostForm("title")))
	description := utils.Sanitize(strings.TrimSpace(ctx.PostForm("description")))
	categories := strings.TrimSpace(ctx.PostForm("categories"))
	targetInfo := strings.TrimSpace(ctx.PostForm("target_info"))
	location := strings.TrimSpace(ctx.PostForm("location"))
	if title == "" || description == "" || categories == "" || targetInfo == "" || location == "" {
		utils.Error(ctx, http.StatusBadRequest, 40020, "title, description, categories, target_info and location are required")
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid multipart form")
		return
	}
	files := form.File["images"]
	cfg := config.Get()
	if len(files) == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40022, "at least one image is required")
		return
	}
	if len(files) > cfg.MaxImagesPerAd {
		utils.Error(ctx, http.StatusBadRequest, 40023, "too many images, maximum is "+strconv.Itoa(cfg.MaxImagesPerAd))
		return
	}
	if msg := validateImageHeaders(files, cfg.MaxImageSizeMB); msg != "" {
		utils.Error(ctx, http.StatusBadRequest, 40024, msg)
		return
	}

	paths, err := c.processUploads(ctx, files)
	if err != nil {
		utils.Sugar.Errorf("image pipeline failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to process images")
		return
	}

	ad := models.Announcement{
		UserID:      userID,
		Title:       title,
		Description: description,
		Categories:  categories,
		TargetInfo:  targetInfo,
		Location:    location,
	}
	ad.SetImageList(paths)

	if err := c.db.Create(&ad).Error; err != nil {
		// row failed, derivatives are orphans; clean them up
		utils.RemovePublicFiles(cfg.UploadDir, paths)
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to create announcement")
		return
	}

	utils.InvalidateByPrefix("cache:ads:")
	utils.Created(ctx, ad)
}

// updateRequest carries the JSON form of a partial update. Every field is
// optional; absent fields leave the stored value untouched.
type updateRequest struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	Categories     *string  `json:"categories"`
	TargetInfo     *string  `json:"target_info"`
	Location       *string  `json:"location"`
	ImagesToDelete []string `json:"imagesToDelete"`
}

// Update applies a partial update to an owned announcement. Accepts either a
// JSON body or a multipart form with new image uploads. Processing order:
// delete named images, append new derivatives, enforce the ceiling, then
// update only the supplied columns filtered by id and owner.
func (c *AnnouncementController) Update(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	id, ok := numericParam(ctx, "id")
	if !ok {
		return
	}

	// Ownership pre-check: a non-owner gets 403 without leaking row contents
	var ad models.Announcement
	if err := c.db.Where("id = ? AND user_id = ?", id, userID).Take(&ad).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusForbidden, 40301, "access denied")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to load announcement")
		return
	}

	req, files, errMsg := parseUpdateBody(ctx)
	if errMsg != "" {
		utils.Error(ctx, http.StatusBadRequest, 40025, errMsg)
		return
	}

	cfg := config.Get()
	images := ad.ImageList()
	imagesChanged := false

	// (a) delete requested images from disk and from the stored list
	if len(req.ImagesToDelete) > 0 {
		utils.RemovePublicFiles(cfg.UploadDir, req.ImagesToDelete)
		images = excludePaths(images, req.ImagesToDelete)
		imagesChanged = true
	}

	// (b) transform and append any new uploads
	if len(files) > 0 {
		if msg := validateImageHeaders(files, cfg.MaxImageSizeMB); msg != "" {
			utils.Error(ctx, http.StatusBadRequest, 40026, msg)
			return
		}
		added, err := c.processUploads(ctx, files)
		if err != nil {
			utils.Sugar.Errorf("image pipeline failed: %v", err)
			utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to process images")
			return
		}
		// (c) ceiling check; derivatives from this request are rolled back
		if len(images)+len(added) > cfg.MaxImagesPerAd {
			utils.RemovePublicFiles(cfg.UploadDir, added)
			utils.Error(ctx, http.StatusBadRequest, 40027, "maximum number of images is "+strconv.Itoa(cfg.MaxImagesPerAd))
			return
		}
		images = append(images, added...)
		imagesChanged = true
	}

	// (d) build the SET map from supplied fields only
	updates := map[string]interface{}{}
	setIfPresent := func(column string, v *string, sanitize bool) {
		if v == nil {
			return
		}
		val := strings.TrimSpace(*v)
		if sanitize {
			val = utils.Sanitize(val)
		}
		if val != "" {
			updates[column] = val
		}
	}
	setIfPresent("title", req.Title, true)
	setIfPresent("description", req.Description, true)
	setIfPresent("categories", req.Categories, false)
	setIfPresent("target_info", req.TargetInfo, false)
	setIfPresent("location", req.Location, false)
	if imagesChanged {
		b, _ := json.Marshal(images)
		updates["image_url"] = string(b)
	}

	// (e) a request that changes nothing at all is rejected
	if len(updates) == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40028, "no fields to update")
		return
	}
	updates["updated_at"] = time.Now()

	res := c.db.Model(&models.Announcement{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to update announcement")
		return
	}

	if err := c.db.Take(&ad, id).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50028, "failed to reload announcement")
		return
	}

	utils.InvalidateByPrefix("cache:ads:")
	utils.InvalidateByPrefix("cache:ad:detail:" + strconv.FormatUint(uint64(id), 10))
	utils.Success(ctx, ad)
}

// Delete removes an owned announcement. Files are deleted before the row;
// a dangling file is the tolerated failure mode if the process dies between
// the two steps.
func (c *AnnouncementController) Delete(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	id, ok := numericParam(ctx, "id")
	if !ok {
		return
	}

	var ad models.Announcement
	if err := c.db.Where("id = ? AND user_id = ?", id, userID).Take(&ad).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusForbidden, 40302, "access denied")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50029, "failed to load announcement")
		return
	}

	cfg := config.Get()
	utils.RemovePublicFiles(cfg.UploadDir, ad.ImageList())

	if err := c.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Announcement{}).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to delete announcement")
		return
	}

	utils.InvalidateByPrefix("cache:ads:")
	utils.InvalidateByPrefix("cache:ad:detail:" + strconv.FormatUint(uint64(id), 10))
	utils.Success(ctx, gin.H{"message": "announcement deleted"})
}

// parseUpdateBody extracts the optional fields, delete list and new files
// from either a multipart form or a JSON body.
func parseUpdateBody(ctx *gin.Context) (updateRequest, []*multipart.FileHeader, string) {
	var req updateRequest

	ct := ctx.ContentType()
	if strings.HasPrefix(ct, "multipart/") {
		form, err := ctx.MultipartForm()
		if err != nil {
			return req, nil, "invalid multipart form"
		}
		formValue := func(key string) *string {
			if vs, ok := form.Value[key]; ok && len(vs) > 0 {
				return &vs[0]
			}
			return nil
		}
		req.Title = formValue("title")
		req.Description = formValue("description")
		req.Categories = formValue("categories")
		req.TargetInfo = formValue("target_info")
		req.Location = formValue("location")
		if raw := formValue("imagesToDelete"); raw != nil && strings.TrimSpace(*raw) != "" {
			if err := json.Unmarshal([]byte(*raw), &req.ImagesToDelete); err != nil {
				return req, nil, "imagesToDelete must be a JSON array of paths"
			}
		}
		return req, form.File["images"], ""
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		return req, nil, "invalid request payload"
	}
	return req, nil, ""
}

// validateImageHeaders checks the per-file size ceiling and image content
// type before any file is written to disk.
func validateImageHeaders(files []*multipart.FileHeader, maxSizeMB int) string {
	maxSize := int64(maxSizeMB) << 20
	for _, fh := range files {
		if fh.Size > maxSize {
			return "image " + fh.Filename + " exceeds " + strconv.Itoa(maxSizeMB) + "MB"
		}
		if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
			return "only image uploads are allowed"
		}
	}
	return ""
}

// processUploads stores each upload, produces its resized JPEG derivative and
// discards the original. On any failure every derivative already written for
// this request is removed before returning.
func (c *AnnouncementController) processUploads(ctx *gin.Context, files []*multipart.FileHeader) ([]string, error) {
	cfg := config.Get()
	processed := make([]string, 0, len(files))

	for _, fh := range files {
		id := uuid.NewString()
		origPath := filepath.Join(cfg.UploadDir, "orig-"+id+filepath.Ext(fh.Filename))
		if err := ctx.SaveUploadedFile(fh, origPath); err != nil {
			utils.RemovePublicFiles(cfg.UploadDir, processed)
			return nil, err
		}

		outName := "processed-" + id + ".jpg"
		outPath := filepath.Join(cfg.UploadDir, outName)
		err := utils.ProcessImage(origPath, outPath, cfg.ImageMaxWidth, cfg.ImageJPEGQuality)
		// The original is discarded whether the transform succeeded or not
		if rmErr := os.Remove(origPath); rmErr != nil && !os.IsNotExist(rmErr) {
			utils.Sugar.Warnf("failed to remove original upload %s: %v", origPath, rmErr)
		}
		if err != nil {
			utils.RemovePublicFiles(cfg.UploadDir, processed)
			return nil, err
		}

		processed = append(processed, utils.PublicPath(outName))
	}
	return processed, nil
}

// excludePaths filters out every path present in the remove list, keeping order.
func excludePaths(paths, remove []string) []string {
	removeSet := make(map[string]struct{}, len(remove))
	for _, p := range remove {
		removeSet[p] = struct{}{}
	}
	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, drop := removeSet[p]; !drop {
			kept = append(kept, p)
		}
	}
	return kept
}

// numericParam parses a numeric :id path parameter, answering 400 on garbage.
func numericParam(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40029, "id must be a number")
		return 0, false
	}
	return uint(v), true
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}
