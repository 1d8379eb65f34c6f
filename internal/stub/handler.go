package stub

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aura-directory/console/internal/models"
	"github.com/aura-directory/console/pkg/response"
)

// List shapes the fixture can serve, matching the variants real deployments
// of the backing store have been seen to return.
const (
	ShapeUsers     = "users"     // {"users":[...]}
	ShapePaginated = "paginated" // {"content":[...],"totalElements":n}
	ShapeBare      = "bare"      // [...]
)

const sessionCookie = "console_session"

// Handler serves the five user-store operations over gin.
type Handler struct {
	store  *Store
	shape  string
	logger *zap.Logger
}

// NewHandler creates a fixture handler serving list responses in the given
// shape. Unknown shapes fall back to the users envelope.
func NewHandler(store *Store, shape string, logger *zap.Logger) *Handler {
	switch shape {
	case ShapeUsers, ShapePaginated, ShapeBare:
	default:
		shape = ShapeUsers
	}
	return &Handler{store: store, shape: shape, logger: logger}
}

// Routes mounts the user-store endpoints under /api.
func (h *Handler) Routes(r *gin.Engine) {
	api := r.Group("/api")
	api.GET("/users", h.ListUsers)
	api.GET("/users/:id", h.GetUser)
	api.POST("/users", h.CreateUser)
	api.PUT("/users/:id", h.UpdateUser)
	api.DELETE("/users/:id", h.DeleteUser)
}

// ListUsers handles GET /api/users, serving the configured list shape. An
// optional "search" query narrows by username server-side.
func (h *Handler) ListUsers(c *gin.Context) {
	h.ensureSession(c)
	users := h.store.List()
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filtered := users[:0:0]
		for _, u := range users {
			if strings.Contains(strings.ToLower(u.Username), strings.ToLower(search)) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	switch h.shape {
	case ShapeBare:
		c.JSON(200, users)
	case ShapePaginated:
		// The paginated deployment is also the one that emits the
		// historical snake_case/mail field names.
		c.JSON(200, gin.H{
			"content":       legacyFields(users),
			"totalElements": len(users),
			"page":          0,
		})
	default:
		c.JSON(200, gin.H{"users": users})
	}
}

// GetUser handles GET /api/users/:id with a single-record envelope.
func (h *Handler) GetUser(c *gin.Context) {
	h.ensureSession(c)
	u, ok := h.store.Get(c.Param("id"))
	if !ok {
		response.NotFound(c, "user not found")
		return
	}
	c.JSON(200, gin.H{"user": u})
}

// CreateUser handles POST /api/users.
func (h *Handler) CreateUser(c *gin.Context) {
	h.ensureSession(c)
	var u models.User
	if err := c.ShouldBindJSON(&u); err != nil {
		response.BadRequest(c, "invalid user payload")
		return
	}
	if strings.TrimSpace(u.Username) == "" || strings.TrimSpace(u.Email) == "" {
		response.BadRequest(c, "username and email are required")
		return
	}
	if _, exists := h.store.FindByUsername(u.Username); exists {
		response.Conflict(c, "a user with this username already exists")
		return
	}
	created := h.store.Create(u)
	h.logger.Info("fixture user created", zap.String("username", created.Username))
	response.Created(c, created)
}

// UpdateUser handles PUT /api/users/:id. The username is write-once and
// keeps its stored value regardless of the payload.
func (h *Handler) UpdateUser(c *gin.Context) {
	h.ensureSession(c)
	existing, ok := h.store.Get(c.Param("id"))
	if !ok {
		response.NotFound(c, "user not found")
		return
	}
	var u models.User
	if err := c.ShouldBindJSON(&u); err != nil {
		response.BadRequest(c, "invalid user payload")
		return
	}
	if strings.TrimSpace(u.Email) == "" {
		response.BadRequest(c, "email is required")
		return
	}
	u.ID = existing.ID
	u.Username = existing.Username
	updated, _ := h.store.Update(u)
	response.OK(c, updated)
}

// DeleteUser handles DELETE /api/users/:id.
func (h *Handler) DeleteUser(c *gin.Context) {
	h.ensureSession(c)
	if !h.store.Delete(c.Param("id")) {
		response.NotFound(c, "user not found")
		return
	}
	response.NoContent(c)
}

// ensureSession hands out a session cookie on first contact so clients can
// exercise credentialed cross-origin behavior.
func (h *Handler) ensureSession(c *gin.Context) {
	if _, err := c.Cookie(sessionCookie); err == nil {
		return
	}
	c.SetCookie(sessionCookie, uuid.NewString(), 3600, "/", "", false, true)
}

// legacyFields re-keys users the way the paginated deployment names them:
// first_name, last_name, and mail instead of the canonical keys.
func legacyFields(users []models.User) []gin.H {
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"id":            u.ID,
			"username":      u.Username,
			"first_name":    u.FirstName,
			"last_name":     u.LastName,
			"mail":          u.Email,
			"phone":         u.Phone,
			"organizations": u.Organizations,
			"deleted":       u.Deleted,
		})
	}
	return out
}
