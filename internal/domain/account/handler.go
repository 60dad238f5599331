package account

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/wellnest/wellnest/internal/platform/access"
	"github.com/wellnest/wellnest/internal/platform/auth"
	"github.com/wellnest/wellnest/internal/platform/httpx"
	"github.com/wellnest/wellnest/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/account", h.EnsureAccount)
	api.GET("/account", h.GetAccount)
	api.PUT("/account", h.UpdateAccount)

	api.GET("/family-members", h.ListMembers)
	api.POST("/family-members", h.InviteMember)
	api.PUT("/family-members/:id", h.UpdateMemberGrants)
	api.DELETE("/family-members/:id", h.RevokeMember)
	api.POST("/invites/accept", h.AcceptInvite)
}

type ensureAccountRequest struct {
	Name string `json:"name"`
}

func (h *Handler) EnsureAccount(c echo.Context) error {
	var req ensureAccountRequest
	if err := c.Bind(&req); err != nil {
		return httpx.Invalid("invalid request body", nil)
	}
	ctx := c.Request().Context()
	a, err := h.svc.EnsureAccount(ctx, auth.SubjectFromContext(ctx), auth.EmailFromContext(ctx), req.Name)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, a)
}

func (h *Handler) GetAccount(c echo.Context) error {
	subject := auth.SubjectFromContext(c.Request().Context())
	a, err := h.svc.GetBySubject(c.Request().Context(), subject)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, a)
}

func (h *Handler) UpdateAccount(c echo.Context) error {
	var req ensureAccountRequest
	if err := c.Bind(&req); err != nil {
		return httpx.Invalid("invalid request body", nil)
	}
	subject := auth.SubjectFromContext(c.Request().Context())
	a, err := h.svc.UpdateName(c.Request().Context(), subject, req.Name)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, a)
}

type inviteRequest struct {
	Email  string              `json:"email"`
	Role   access.Role         `json:"role"`
	Grants []access.Capability `json:"grants"`
}

func (h *Handler) InviteMember(c echo.Context) error {
	var req inviteRequest
	if err := c.Bind(&req); err != nil {
		return httpx.Invalid("invalid request body", nil)
	}
	subject := auth.SubjectFromContext(c.Request().Context())
	m, err := h.svc.InviteMember(c.Request().Context(), subject, req.Email, req.Role, req.Grants)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusCreated, m)
}

type acceptInviteRequest struct {
	Token string `json:"token"`
}

func (h *Handler) AcceptInvite(c echo.Context) error {
	var req acceptInviteRequest
	if err := c.Bind(&req); err != nil {
		return httpx.Invalid("invalid request body", nil)
	}
	subject := auth.SubjectFromContext(c.Request().Context())
	m, err := h.svc.AcceptInvite(c.Request().Context(), req.Token, subject)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, m)
}

type updateGrantsRequest struct {
	Role   access.Role         `json:"role"`
	Grants []access.Capability `json:"grants"`
}

func (h *Handler) UpdateMemberGrants(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid id", nil)
	}
	var req updateGrantsRequest
	if err := c.Bind(&req); err != nil {
		return httpx.Invalid("invalid request body", nil)
	}
	subject := auth.SubjectFromContext(c.Request().Context())
	m, err := h.svc.UpdateMemberGrants(c.Request().Context(), subject, id, req.Role, req.Grants)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, m)
}

func (h *Handler) RevokeMember(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid id", nil)
	}
	subject := auth.SubjectFromContext(c.Request().Context())
	if err := h.svc.RevokeMember(c.Request().Context(), subject, id); err != nil {
		return err
	}
	return httpx.NoContent(c)
}

func (h *Handler) ListMembers(c echo.Context) error {
	pg := pagination.FromContext(c)
	subject := auth.SubjectFromContext(c.Request().Context())
	items, total, err := h.svc.ListMembers(c.Request().Context(), subject, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
