package httpapi

import (
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"waste-platform/internal/audit"
	"waste-platform/internal/auth"
	"waste-platform/internal/blob"
	"waste-platform/internal/complaint"
	"waste-platform/internal/rbac"
	"waste-platform/internal/stats"
	"waste-platform/internal/user"
	"waste-platform/internal/workflow"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal modules, return JSON.
// No retry logic lives here; retries are the client's concern.

type Handlers struct {
	Auth   *auth.Manager
	Users  *user.Service
	Engine *workflow.Engine
	Store  complaint.Store
	Audit  *audit.Service
	Stats  *stats.Service
	Blobs  blob.Store
}

func subject(c *gin.Context) (workflow.Subject, bool) {
	uid, err := auth.UserID(c.Request.Context())
	if err != nil {
		return workflow.Subject{}, false
	}
	raw, err := auth.Role(c.Request.Context())
	if err != nil {
		return workflow.Subject{}, false
	}
	role, ok := rbac.ParseRole(raw)
	if !ok {
		return workflow.Subject{}, false
	}
	return workflow.Subject{ID: uid, Role: role}, true
}

// writeError maps the typed error taxonomy to HTTP statuses. Anything
// unrecognized is a storage fault: fatal, not retried, surfaced as 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, complaint.ErrNotFound), errors.Is(err, user.ErrNotFound), errors.Is(err, blob.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, rbac.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, workflow.ErrInvalidTransition):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrValidation), errors.Is(err, user.ErrInvalidInput),
		errors.Is(err, blob.ErrEmptyPayload), errors.Is(err, blob.ErrTooLarge), errors.Is(err, blob.ErrBadMimeType):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, user.ErrEmailTaken):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "user already exists"})
	case errors.Is(err, user.ErrInvalidCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (h Handlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	u, err := h.Users.Register(c.Request.Context(), user.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     rbac.Role(req.Role),
		Phone:    req.Phone,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	pair, err := h.Auth.IssuePair(time.Now(), u.ID, string(u.Role))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"token": pair.AccessToken,
		"user":  userResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: string(u.Role)},
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	u, err := h.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	pair, err := h.Auth.IssuePair(time.Now(), u.ID, string(u.Role))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": pair.AccessToken,
		"user":  userResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: string(u.Role)},
	})
}

// --- Complaints ---

// imagePayload carries an inline upload. Data is base64; the decoded bytes
// go straight to the blob store, which enforces size and content type.
type imagePayload struct {
	Data        string `json:"data"`
	ContentType string `json:"content_type"`
}

func (h Handlers) storeImage(c *gin.Context, img *imagePayload) (blob.Ref, error) {
	if img == nil || img.Data == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		return "", errors.Join(workflow.ErrValidation, errors.New("image data is not valid base64"))
	}
	return h.Blobs.Put(c.Request.Context(), raw, img.ContentType)
}

type submitComplaintRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Lat         float64       `json:"lat"`
	Lng         float64       `json:"lng"`
	Address     string        `json:"address"`
	Priority    string        `json:"priority"`
	Image       *imagePayload `json:"image,omitempty"`
}

func (h Handlers) SubmitComplaint(c *gin.Context) {
	actor, ok := subject(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
		return
	}
	var req submitComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	// Store the blob first: if this fails the transition never starts.
	ref, err := h.storeImage(c, req.Image)
	if err != nil {
		writeError(c, err)
		return
	}

	created, err := h.Engine.Submit(c.Request.Context(), actor, workflow.SubmitInput{
		Title:               req.Title,
		Description:         req.Description,
		Lat:                 req.Lat,
		Lng:                 req.Lng,
		Address:             req.Address,
		Priority:            complaint.Priority(req.Priority),
		OriginalEvidenceRef: string(ref),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Complaint submitted successfully", "complaint_id": created.ID})
}

func (h Handlers) ListComplaints(c *gin.Context) {
	actor, ok := subject(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
		return
	}

	rows, err := h.Store.List(c.Request.Context(), rbac.VisibilityFilter(actor.Role, actor.ID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h Handlers) GetComplaint(c *gin.Context) {
	actor, ok := subject(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
		return
	}

	row, err := h.Store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !rbac.CanView(actor.Role, actor.ID, row) {
		writeError(c, rbac.ErrForbidden)
		return
	}
	c.JSON(http.StatusOK, row)
}

type assignRequest struct {
	WorkerID string `json:"worker_id"`
}

func (h Handlers) AssignWorker(c *gin.Context) {
	actor, ok := subject(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
		return
	}
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if _, err := h.Engine.Assign(c.Request.Context(), actor, c.Param("id"), req.WorkerID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Complaint assigned successfully"})
}

func (h Handlers) StartWork(c *gin.Context) {
	actor, ok := subject(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
		return
	}

	if _, err := h.Engine.Start(c.Request.Context(), actor, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Work started successfully"})
}

type completeRequest struct {
	BeforeImage *imagePayload `json:"before_image"`
	AfterImage  *imagePayload `json:"after_image"`
}

func (h Handlers) CompleteWork(c *gin.Context) {
	actor, ok := subject(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
		return
	}
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	// Both blobs are stored before any transition is attempted.
	beforeRef, err := h.storeImage(c, req.BeforeImage)
	if err != nil {
		writeError(c, err)
		return
	}
	afterRef, err := h.storeImage(c, req.AfterImage)
	if err != nil {
		writeError(c, err)
		return
	}

	if _, err := h.Engine.Complete(c.Request.Context(), actor, c.Param("id"), string(beforeRef), string(afterRef)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Complaint marked as completed"})
}

type verifyRequest struct {
	Approved bool   `json:"approved"`
	Feedback string `json:"feedback"`
}

func (h Handlers) VerifyCompletion(c *gin.Context) {
	actor, ok := subject(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
		return
	}
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if _, err := h.Engine.Verify(c.Request.Context(), actor, c.Param("id"), req.Approved, req.Feedback); err != nil {
		writeError(c, err)
		return
	}
	msg := "Complaint verified successfully"
	if !req.Approved {
		msg = "Complaint rejected successfully"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

type feedbackRequest struct {
	Feedback string `json:"feedback"`
	Rating   int    `json:"rating"`
}

func (h Handlers) SubmitFeedback(c *gin.Context) {
	actor, ok := subject(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
		return
	}
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if _, err := h.Engine.Feedback(c.Request.Context(), actor, c.Param("id"), req.Feedback, req.Rating); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Feedback submitted successfully"})
}

// --- Users ---

func (h Handlers) ListWorkers(c *gin.Context) {
	workers, err := h.Users.ListWorkers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, workers)
}

// --- Dashboard ---

func (h Handlers) DashboardStats(c *gin.Context) {
	actor, ok := subject(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
		return
	}

	out, err := h.Stats.Dashboard(c.Request.Context(), actor.ID, actor.Role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// --- Activity log ---

// GetActivityLog returns a complaint's trail, newest first. Visibility
// follows the same policy as reading the complaint itself.
func (h Handlers) GetActivityLog(c *gin.Context) {
	actor, ok := subject(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
		return
	}

	row, err := h.Store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !rbac.CanView(actor.Role, actor.ID, row) {
		writeError(c, rbac.ErrForbidden)
		return
	}

	entries, err := h.Audit.ListByComplaint(c.Request.Context(), row.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
