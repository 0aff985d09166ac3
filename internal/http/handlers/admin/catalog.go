package admin

import (
	"errors"
	"net/http"

	"github.com/pasarantar/admin-console/internal/catalog"
	"github.com/pasarantar/admin-console/internal/console"
	handlershared "github.com/pasarantar/admin-console/internal/http/handlers/shared"
	"github.com/pasarantar/admin-console/internal/http/response"
	"github.com/pasarantar/admin-console/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

// 上传请求体上限，略大于目录端的图片限制
const maxUploadBody = catalog.MaxImageSize + 1<<20

// ListProducts 商品列表；目录端失败时仍返回空列表和错误文案
func (h *Handler) ListProducts(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.NormalizePagination(cast.ToInt(c.Query("page")), cast.ToInt(c.Query("page_size")))
	result := ws.ListProducts(c.Request.Context(), catalog.ListQuery{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
		Category: c.Query("category"),
	})
	response.Success(c, result)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	h.deleteEntity(c, notify.EntityProduct, c.Param("id"))
}

// DeleteEntity 删除分类、单位、标签或客户
func (h *Handler) DeleteEntity(c *gin.Context) {
	entity, err := console.ParseEntity(c.Param("entity"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.deleteEntity(c, entity, c.Param("id"))
}

func (h *Handler) deleteEntity(c *gin.Context, entity notify.Entity, id string) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	if id == "" {
		respondErrorWithMsg(c, response.CodeBadRequest, handlershared.MsgBadRequest, nil)
		return
	}
	result, err := ws.Delete(c.Request.Context(), entity, id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, result)
}

// UploadImage 通过 multipart 字段 image 上传商品图片
func (h *Handler) UploadImage(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)
	file, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondErrorWithMsg(c, response.CodeUnprocessable, handlershared.MsgImageTooLarge, err)
			return
		}
		respondErrorWithMsg(c, response.CodeBadRequest, handlershared.MsgImageRequired, err)
		return
	}
	src, err := file.Open()
	if err != nil {
		respondErrorWithMsg(c, response.CodeBadRequest, handlershared.MsgImageRequired, err)
		return
	}
	defer src.Close()

	result, err := ws.UploadImage(c.Request.Context(), file.Filename, src)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, result)
}
