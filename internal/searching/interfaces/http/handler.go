package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/productsearch/internal/searching/application"
	"github.com/wyfcoding/productsearch/internal/searching/domain"
	"github.com/wyfcoding/productsearch/pkg/logger"
	"github.com/wyfcoding/productsearch/pkg/response"
)

// CategoryReloader 类目缓存重载入口
type CategoryReloader interface {
	LoadCache(ctx context.Context) error
}

// ProductEnqueuer 单品重建入队入口，由共享工作队列实现
type ProductEnqueuer interface {
	Push(ctx context.Context, productIDs []int64) error
}

// SearchHandler 处理商品搜索与运维相关的 HTTP 请求
type SearchHandler struct {
	app      *application.SearchService // 搜索应用服务
	reloader CategoryReloader
	enqueuer ProductEnqueuer
}

// NewSearchHandler 创建 HTTP 处理器实例
func NewSearchHandler(app *application.SearchService, reloader CategoryReloader, enqueuer ProductEnqueuer) *SearchHandler {
	return &SearchHandler{app: app, reloader: reloader, enqueuer: enqueuer}
}

// RegisterRoutes 将处理器方法绑定到 Gin 路由引擎
func (h *SearchHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/products")
	{
		api.GET("/search", h.Search)
		api.GET("/ranking", h.Ranking)
		api.GET("/likes", h.Likes)
	}

	admin := router.Group("/api/v1/admin")
	{
		admin.POST("/categories/reload", h.ReloadCategories)
		admin.POST("/reindex/:id", h.Reindex)
	}
}

// Search 商品搜索
func (h *SearchHandler) Search(c *gin.Context) {
	params := application.SearchParams{
		Keyword: c.Query("keyword"),
		Sort:    c.Query("sort"),
		Cursor:  c.Query("cursor"),
	}

	var err error
	if params.CategoryID, err = parseInt64Query(c, "category_id"); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid category_id", "")
		return
	}
	if params.SellerID, err = parseInt64Query(c, "seller_id"); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid seller_id", "")
		return
	}
	if params.DisplayGroupID, err = parseInt64Query(c, "display_group_id"); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid display_group_id", "")
		return
	}
	if size, err := parseInt64Query(c, "size"); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid size", "")
		return
	} else {
		params.Size = int(size)
	}
	params.QuickDelivery = c.Query("quick_delivery") == "true"

	page, err := h.app.Search(c.Request.Context(), params)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, page)
}

// Ranking 销量榜
func (h *SearchHandler) Ranking(c *gin.Context) {
	h.listByOffset(c, h.app.Ranking)
}

// Likes 点赞榜
func (h *SearchHandler) Likes(c *gin.Context) {
	h.listByOffset(c, h.app.Likes)
}

func (h *SearchHandler) listByOffset(c *gin.Context, list func(context.Context, int, string) (*application.Page, error)) {
	size, err := parseInt64Query(c, "size")
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid size", "")
		return
	}

	page, err := list(c.Request.Context(), int(size), c.Query("cursor"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, page)
}

// ReloadCategories 强制重载类目缓存
func (h *SearchHandler) ReloadCategories(c *gin.Context) {
	if err := h.reloader.LoadCache(c.Request.Context()); err != nil {
		logger.Error(c.Request.Context(), "Failed to reload category cache", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, nil)
}

// Reindex 手动触发单品重建
func (h *SearchHandler) Reindex(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return
	}

	if err := h.enqueuer.Push(c.Request.Context(), []int64{id}); err != nil {
		logger.Error(c.Request.Context(), "Failed to enqueue product reindex", "product_id", id, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"product_id": id})
}

func (h *SearchHandler) renderError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrBadCursor) || errors.Is(err, domain.ErrBadSort) {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	logger.Error(c.Request.Context(), "Search request failed", "error", err)
	response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
}

func parseInt64Query(c *gin.Context, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
