package admin

import (
	"errors"

	"github.com/pasarantar/admin-console/internal/authz"
	"github.com/pasarantar/admin-console/internal/http/response"

	"github.com/gin-gonic/gin"
)

const msgAuthzInvalid = "Peran atau kebijakan tidak valid."

type authzPolicyPayload struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

type authzInheritPayload struct {
	Role   string `json:"role" binding:"required"`
	Parent string `json:"parent" binding:"required"`
}

// ListAuthzRoles 获取角色列表
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondAuthzError(c, err)
		return
	}
	response.Success(c, roles)
}

// GetAuthzRolePolicies 获取角色直连策略
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	policies, err := h.AuthzService.GetRolePolicies(c.Param("role"))
	if err != nil {
		respondAuthzError(c, err)
		return
	}
	response.Success(c, policies)
}

// GrantAuthzPolicy 授予策略
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithMsg(c, response.CodeBadRequest, msgAuthzInvalid, err)
		return
	}
	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondAuthzError(c, err)
		return
	}
	requestLog(c).Infow("console_authz_policy_granted", "role", req.Role, "object", req.Object, "action", req.Action)
	response.Success(c, req)
}

// RevokeAuthzPolicy 撤销策略
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithMsg(c, response.CodeBadRequest, msgAuthzInvalid, err)
		return
	}
	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondAuthzError(c, err)
		return
	}
	requestLog(c).Infow("console_authz_policy_revoked", "role", req.Role, "object", req.Object, "action", req.Action)
	response.Success(c, req)
}

// InheritAuthzRole 设置角色继承
func (h *Handler) InheritAuthzRole(c *gin.Context) {
	var req authzInheritPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithMsg(c, response.CodeBadRequest, msgAuthzInvalid, err)
		return
	}
	if err := h.AuthzService.InheritRole(req.Role, req.Parent); err != nil {
		respondAuthzError(c, err)
		return
	}
	response.Success(c, req)
}

func respondAuthzError(c *gin.Context, err error) {
	if errors.Is(err, authz.ErrUnavailable) {
		respondError(c, err)
		return
	}
	respondErrorWithMsg(c, response.CodeBadRequest, msgAuthzInvalid, err)
}
