package handlers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/techsense/store_be/internal/models"
	"github.com/techsense/store_be/internal/utils"
)

type AdminHandler struct {
	DB       *gorm.DB
	MediaDir string
	BaseURL  string
}

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type ProjectReq struct {
	Title            string   `json:"title"`
	ShortDescription string   `json:"short_description"`
	Description      string   `json:"description"`
	TechStack        string   `json:"tech_stack"`
	Category         string   `json:"category"`
	Level            string   `json:"level"`
	DurationWeeks    int      `json:"duration_weeks"`
	Price            int64    `json:"price"`
	Highlights       []string `json:"highlights"`
	IsActive         *bool    `json:"is_active"`
	IsFeatured       *bool    `json:"is_featured"`
}

func (r *ProjectReq) validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(r.Title) == "" {
		errs.Add("title", "Title is required")
	}
	if r.Price < 0 {
		errs.Add("price", "Price cannot be negative")
	}
	if r.Category != "" && !models.ValidCategory(r.Category) {
		errs.Add("category", "Invalid category")
	}
	if r.Level != "" && !models.ValidLevel(r.Level) {
		errs.Add("level", "Invalid level")
	}
	return errs
}

// CreateProject adds a project to the catalog. The slug is derived
// from the title and suffixed until unique, so titles may repeat.
func (h *AdminHandler) CreateProject(c *fiber.Ctx) error {
	var req ProjectReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	if errs := req.validate(); len(errs) > 0 {
		return validationFail(c, errs)
	}

	base := utils.Slugify(req.Title)
	slug, err := utils.UniqueSlug(h.DB, "projects", base)
	if err != nil {
		return fail500(c, "Failed to create project")
	}

	project := models.Project{
		Title:            strings.TrimSpace(req.Title),
		Slug:             slug,
		ShortDescription: strings.TrimSpace(req.ShortDescription),
		Description:      req.Description,
		TechStack:        strings.TrimSpace(req.TechStack),
		Category:         models.CategoryWeb,
		Level:            models.LevelBeginner,
		DurationWeeks:    req.DurationWeeks,
		Price:            req.Price,
	}
	if req.Category != "" {
		project.Category = req.Category
	}
	if req.Level != "" {
		project.Level = req.Level
	}
	if req.IsActive != nil {
		project.IsActive = *req.IsActive
	} else {
		project.IsActive = true
	}
	if req.IsFeatured != nil {
		project.IsFeatured = *req.IsFeatured
	}
	if len(req.Highlights) > 0 {
		raw, err := json.Marshal(req.Highlights)
		if err != nil {
			return fail500(c, "Failed to create project")
		}
		project.Highlights = datatypes.JSON(raw)
	}

	if err := h.DB.Create(&project).Error; err != nil {
		return fail500(c, "Failed to create project")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Project created.",
		"data": fiber.Map{
			"id":   project.ID,
			"slug": project.Slug,
		},
	})
}

// UpdateProject edits everything except the slug, which is permanent
// once minted so existing links keep working.
func (h *AdminHandler) UpdateProject(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return notFound(c, "Project not found")
	}

	var project models.Project
	if err := h.DB.First(&project, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return notFound(c, "Project not found")
		}
		return fail500(c, "Failed to load project")
	}

	var req ProjectReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	if errs := req.validate(); len(errs) > 0 {
		return validationFail(c, errs)
	}

	project.Title = strings.TrimSpace(req.Title)
	project.ShortDescription = strings.TrimSpace(req.ShortDescription)
	project.Description = req.Description
	project.TechStack = strings.TrimSpace(req.TechStack)
	project.DurationWeeks = req.DurationWeeks
	project.Price = req.Price
	if req.Category != "" {
		project.Category = req.Category
	}
	if req.Level != "" {
		project.Level = req.Level
	}
	if req.IsActive != nil {
		project.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		project.IsFeatured = *req.IsFeatured
	}
	if req.Highlights != nil {
		raw, err := json.Marshal(req.Highlights)
		if err != nil {
			return fail500(c, "Failed to update project")
		}
		project.Highlights = datatypes.JSON(raw)
	}

	if err := h.DB.Save(&project).Error; err != nil {
		return fail500(c, "Failed to update project")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Project updated.",
		"data": fiber.Map{
			"id":   project.ID,
			"slug": project.Slug,
		},
	})
}

// UploadProjectImage stores a gallery image under the media dir and
// records its public path.
func (h *AdminHandler) UploadProjectImage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return notFound(c, "Project not found")
	}

	var project models.Project
	if err := h.DB.First(&project, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return notFound(c, "Project not found")
		}
		return fail500(c, "Failed to load project")
	}

	file, err := c.FormFile("image")
	if err != nil {
		errs := FieldErrors{}
		errs.Add("image", "An image file is required")
		return validationFail(c, errs)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		errs := FieldErrors{}
		errs.Add("image", "Only jpg, jpeg, png and webp files are allowed")
		return validationFail(c, errs)
	}

	dir := filepath.Join(h.MediaDir, "project_images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fail500(c, "Failed to store image")
	}

	filename := fmt.Sprintf("project_%d_%d%s", project.ID, time.Now().UnixNano(), ext)
	if err := c.SaveFile(file, filepath.Join(dir, filename)); err != nil {
		return fail500(c, "Failed to store image")
	}

	img := models.ProjectImage{
		ProjectID: project.ID,
		Image:     "/media/project_images/" + filename,
		Caption:   strings.TrimSpace(c.FormValue("caption")),
	}
	if err := h.DB.Create(&img).Error; err != nil {
		return fail500(c, "Failed to store image")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Image uploaded.",
		"data":    fiber.Map{"image": img},
	})
}

type BlogPostReq struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Image       string `json:"image"`
	IsPublished *bool  `json:"is_published"`
}

func (h *AdminHandler) CreateBlogPost(c *fiber.Ctx) error {
	var req BlogPostReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	errs := FieldErrors{}
	if strings.TrimSpace(req.Title) == "" {
		errs.Add("title", "Title is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		errs.Add("content", "Content is required")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	base := utils.Slugify(req.Title)
	slug, err := utils.UniqueSlug(h.DB, "blog_posts", base)
	if err != nil {
		return fail500(c, "Failed to create post")
	}

	post := models.BlogPost{
		Title:   strings.TrimSpace(req.Title),
		Slug:    slug,
		Content: req.Content,
		Image:   strings.TrimSpace(req.Image),
	}
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	} else {
		post.IsPublished = true
	}

	if err := h.DB.Create(&post).Error; err != nil {
		return fail500(c, "Failed to create post")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Post created.",
		"data": fiber.Map{
			"id":   post.ID,
			"slug": post.Slug,
		},
	})
}

func (h *AdminHandler) ListContactMessages(c *fiber.Ctx) error {
	var messages []models.ContactMessage
	if err := h.DB.Order("created_at DESC").Find(&messages).Error; err != nil {
		return fail500(c, "Failed to load messages")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Contact messages",
		"data":    fiber.Map{"messages": messages},
	})
}

func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	query := h.DB.Preload("User").Preload("Project").Preload("Review")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return fail500(c, "Failed to load orders")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Orders",
		"data":    fiber.Map{"orders": orders},
	})
}

type OrderStatusReq struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// UpdateOrderStatus moves an order along the staff workflow. Terminal
// orders and skipped steps are rejected.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return notFound(c, "Order not found")
	}

	var order models.Order
	if err := h.DB.First(&order, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return notFound(c, "Order not found")
		}
		return fail500(c, "Failed to load order")
	}

	var req OrderStatusReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	next := models.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !models.ValidOrderStatus(next) || !order.Status.CanTransitionTo(next) {
		return fail(c, fiber.StatusBadRequest,
			fmt.Sprintf("Cannot move order from '%s' to '%s'.", order.Status, next))
	}

	order.Status = next
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		order.Notes = notes
	}
	if err := h.DB.Save(&order).Error; err != nil {
		return fail500(c, "Failed to update order")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order updated.",
		"data": fiber.Map{
			"id":     order.ID,
			"status": order.Status,
		},
	})
}
