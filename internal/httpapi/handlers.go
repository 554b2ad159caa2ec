package httpapi

import (
	"net/http"
	"time"

	"flow-admin/internal/audit"
	"flow-admin/internal/auth"
	"flow-admin/internal/clone"
	"flow-admin/internal/policy"
	"flow-admin/internal/refdata"
	"flow-admin/pkg/logger"
	"flow-admin/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal modules, return JSON.
type Handlers struct {
	Auth  *auth.Manager
	Refs  refdata.Store
	Audit *audit.Service
	Clone clone.Config

	// Redis is optional; when set, clones of persisted policies are
	// single-flighted per policy id.
	Redis *redis.Client
}

const cloneLockTTL = 30 * time.Second

// --- Auth ---

type loginRequest struct {
	UserID      string `json:"user_id"`
	WorkspaceID string `json:"workspace_id"`
	Role        string `json:"role"`
}

// Login issues a JWT token pair.
//
// NOTE: This is a skeleton-only endpoint. Real systems must validate
// credentials.
func (h Handlers) Login(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.UserID == "" || req.WorkspaceID == "" || req.Role == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user_id, workspace_id, role required"})
		return
	}
	pair, err := h.Auth.IssuePair(time.Now(), req.UserID, req.WorkspaceID, req.Role)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

// --- Policy clone ---

type cloneRequest struct {
	Policy *policy.Policy `json:"policy"`
}

type cloneResponse struct {
	Policy *policy.Policy `json:"policy"`
	Report reportPayload  `json:"report"`
}

type reportPayload struct {
	Messages []string `json:"messages"`
}

// ClonePolicy produces a reference-sanitized copy of the posted policy
// against the caller workspace's reference context.
func (h Handlers) ClonePolicy(c *gin.Context) {
	res, _, ok := h.runClone(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cloneResponse{
		Policy: res.Policy,
		Report: reportPayload{Messages: res.Report.Messages()},
	})
}

// CloneReport runs the same clone but returns the rendered text report as
// a download instead of the document.
func (h Handlers) CloneReport(c *gin.Context) {
	res, name, ok := h.runClone(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", `attachment; filename="clone-report.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(res.Report.Render(name)))
}

// runClone is the shared parse/load/clone/audit path. On failure it writes
// the error response itself and returns ok=false.
func (h Handlers) runClone(c *gin.Context) (clone.Result, string, bool) {
	workspaceID, err := auth.WorkspaceID(c.Request.Context())
	if err != nil || workspaceID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "workspace_id required"})
		return clone.Result{}, "", false
	}

	var req cloneRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Policy == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "policy document required"})
		return clone.Result{}, "", false
	}

	if h.Redis != nil && req.Policy.PolicyID != "" {
		token, ok, err := utils.AcquireCloneLock(c.Request.Context(), h.Redis, req.Policy.PolicyID, cloneLockTTL)
		if err == nil && !ok {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "clone already in progress for this policy"})
			return clone.Result{}, "", false
		}
		if err == nil {
			defer func() {
				_ = utils.ReleaseCloneLock(c.Request.Context(), h.Redis, req.Policy.PolicyID, token)
			}()
		}
		// Lock errors degrade to an unlocked clone; the engine is safe
		// either way.
	}

	if h.Refs == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "reference store not configured"})
		return clone.Result{}, "", false
	}
	refs, err := h.Refs.Load(c.Request.Context(), workspaceID)
	if err != nil {
		logger.From(c.Request.Context()).Error("reference context load failed", "err", err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "reference context unavailable"})
		return clone.Result{}, "", false
	}

	name := req.Policy.DisplayName()
	res, err := clone.Clone(clone.Options{Policy: req.Policy, Refs: refs, Config: h.Clone})
	if err != nil {
		logger.From(c.Request.Context()).Error("clone failed", "policy", name, "err", err)
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return clone.Result{}, "", false
	}

	h.auditClone(c, workspaceID, req.Policy, res)
	return res, name, true
}

func (h Handlers) auditClone(c *gin.Context, workspaceID string, src *policy.Policy, res clone.Result) {
	if h.Audit == nil {
		return
	}
	userID, _ := auth.UserID(c.Request.Context())
	role, _ := auth.Role(c.Request.Context())
	if err := h.Audit.LogClone(c.Request.Context(), workspaceID, userID, role, c.ClientIP(),
		src.PolicyID, src.DisplayName(), len(res.Report.Messages())); err != nil {
		// Best-effort only.
		logger.From(c.Request.Context()).Warn("clone audit failed", "err", err)
	}
}

// --- Policy validation ---

type validateResponse struct {
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations,omitempty"`
}

// ValidatePolicy runs the pre-save structural checks.
func (h Handlers) ValidatePolicy(c *gin.Context) {
	workspaceID, err := auth.WorkspaceID(c.Request.Context())
	if err != nil || workspaceID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "workspace_id required"})
		return
	}

	var req cloneRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Policy == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "policy document required"})
		return
	}

	violations := policy.Validate(req.Policy)

	if h.Audit != nil {
		userID, _ := auth.UserID(c.Request.Context())
		role, _ := auth.Role(c.Request.Context())
		if err := h.Audit.LogValidate(c.Request.Context(), workspaceID, userID, role, c.ClientIP(),
			req.Policy.PolicyID, req.Policy.DisplayName(), len(violations)); err != nil {
			logger.From(c.Request.Context()).Warn("validate audit failed", "err", err)
		}
	}

	c.JSON(http.StatusOK, validateResponse{Valid: len(violations) == 0, Violations: violations})
}

// --- Small lookups ---

// PolicyTypeDisplay maps a policy type code to its UI label.
func (h Handlers) PolicyTypeDisplay(c *gin.Context) {
	code := c.Param("code")
	c.JSON(http.StatusOK, gin.H{"code": code, "label": policy.TypeDisplay(code)})
}

// DeleteCheck reports whether the posted policy may be deleted.
func (h Handlers) DeleteCheck(c *gin.Context) {
	var req cloneRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Policy == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "policy document required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"can_delete": policy.CanDelete(req.Policy)})
}
