package admin

import (
	"strings"

	"github.com/pasarantar/admin-console/internal/console"
	handlershared "github.com/pasarantar/admin-console/internal/http/handlers/shared"
	"github.com/pasarantar/admin-console/internal/http/response"
	"github.com/pasarantar/admin-console/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

type openProductFormPayload struct {
	ProductID string `json:"product_id"`
}

type openEntityFormPayload struct {
	ID string `json:"id"`
}

type patchFormPayload struct {
	Changes []console.FieldChange `json:"changes" binding:"required,min=1"`
}

type formResponse struct {
	ID     string        `json:"id"`
	Entity notify.Entity `json:"entity"`
	View   any           `json:"view"`
}

func newFormResponse(f console.Form) formResponse {
	return formResponse{ID: f.ID(), Entity: f.Entity(), View: f.View()}
}

// OpenProductForm 打开商品表单；带 product_id 时进入编辑模式并开始加载
func (h *Handler) OpenProductForm(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	var req openProductFormPayload
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondErrorWithMsg(c, response.CodeBadRequest, handlershared.MsgBadRequest, err)
			return
		}
	}
	f, err := ws.OpenProductForm(c.Request.Context(), strings.TrimSpace(req.ProductID))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, newFormResponse(f))
}

// OpenEntityForm 打开分类、单位、标签、客户或站点设置表单
func (h *Handler) OpenEntityForm(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	entity, err := console.ParseEntity(c.Param("entity"))
	if err != nil {
		respondError(c, err)
		return
	}
	var req openEntityFormPayload
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondErrorWithMsg(c, response.CodeBadRequest, handlershared.MsgBadRequest, err)
			return
		}
	}
	f, err := ws.OpenEntityForm(c.Request.Context(), entity, strings.TrimSpace(req.ID))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, newFormResponse(f))
}

// GetForm 表单快照
func (h *Handler) GetForm(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	f, err := ws.Form(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, newFormResponse(f))
}

// PatchForm 批量修改字段；name 总是先于其他字段应用
func (h *Handler) PatchForm(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	var req patchFormPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithMsg(c, response.CodeBadRequest, handlershared.MsgBadRequest, err)
		return
	}
	f, err := ws.Form(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := f.Apply(req.Changes); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, newFormResponse(f))
}

// ValidateForm 只校验不提交
func (h *Handler) ValidateForm(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	f, err := ws.Form(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	result := f.Validate()
	response.Success(c, gin.H{
		"valid":  result.Valid(),
		"errors": result.Errors,
	})
}

// SubmitForm 提交表单；redirect=true 时成功后跳转到列表页
func (h *Handler) SubmitForm(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	redirect := cast.ToBool(c.DefaultQuery("redirect", "true"))
	result, err := ws.Submit(c.Request.Context(), c.Param("id"), redirect)
	if err != nil {
		respondError(c, err)
		return
	}
	requestLog(c).Infow("console_form_submitted",
		"form_id", c.Param("id"),
		"outcome", result.Outcome,
		"action", result.Action,
		"entity_id", result.EntityID,
	)
	response.Success(c, result)
}

// AddVariant 追加商品规格
func (h *Handler) AddVariant(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	pf, err := ws.ProductForm(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	index, err := pf.AddVariant()
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"index": index, "view": pf.View()})
}

// RemoveVariant 删除商品规格，最后一个不可删除
func (h *Handler) RemoveVariant(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	index, ok := variantIndex(c)
	if !ok {
		return
	}
	pf, err := ws.ProductForm(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := pf.RemoveVariant(index); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"view": pf.View()})
}

// ToggleVariantStock 切换规格的库存管理
func (h *Handler) ToggleVariantStock(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	index, ok := variantIndex(c)
	if !ok {
		return
	}
	pf, err := ws.ProductForm(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := pf.ToggleStockManagement(index); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"view": pf.View()})
}

// CloseForm 丢弃表单，未完成的请求结果与跳转都会被忽略
func (h *Handler) CloseForm(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if !ws.CloseForm(id) {
		respondError(c, console.ErrFormNotFound)
		return
	}
	response.Success(c, gin.H{"id": id})
}

func variantIndex(c *gin.Context) (int, bool) {
	index, err := cast.ToIntE(c.Param("index"))
	if err != nil || index < 0 {
		respondErrorWithMsg(c, response.CodeBadRequest, handlershared.MsgVariantIndex, err)
		return 0, false
	}
	return index, true
}
