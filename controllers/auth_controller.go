package controllers

import (
	"errors"
	"net/http"

	"chemlab_inventory/app"
	"chemlab_inventory/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

type registerRequest struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FullName    string `json:"fullName" binding:"required"`
	StudentID   string `json:"studentId"`
	Department  string `json:"department"`
	PhoneNumber string `json:"phoneNumber"`
}

// Register creates a student account. Admins come from bootstrap or an
// existing admin flipping the role in the database.
func (ac *AuthController) Register(c *gin.Context) {
	var in registerRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": "could not hash password"})
		return
	}

	u := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Role:         models.RoleStudent,
		StudentID:    in.StudentID,
		Department:   in.Department,
		PhoneNumber:  in.PhoneNumber,
		IsActive:     true,
	}
	if err := ac.Repo.CreateUser(c.Request.Context(), u); err != nil {
		// unique violation on username/email is the common case here
		c.JSON(http.StatusBadRequest, app.H{"error": "username or email already taken"})
		return
	}

	if err := ac.issueSession(c.Request.Context(), c.Writer, u.ID); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, app.H{"user": u})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"` // username or email
	Password string `json:"password" binding:"required"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	u, err := ac.Repo.FindUserByUsername(c.Request.Context(), in.Username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		u, err = ac.Repo.FindUserByEmail(c.Request.Context(), in.Username)
	}
	if err != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid credentials"})
		return
	}
	if !u.IsActive {
		c.JSON(http.StatusUnauthorized, app.H{"error": "account deactivated"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid credentials"})
		return
	}

	if err := ac.issueSession(c.Request.Context(), c.Writer, u.ID); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"user": u})
}

func (ac *AuthController) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		_ = ac.AppSess.Delete(c.Request.Context(), ck.Value)
	}
	ac.clearAppCookie(c.Writer)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

func (ac *AuthController) WhoAmI(c *gin.Context) {
	uid, ok := app.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	u, err := ac.Repo.FindUserByID(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	unread, _ := ac.Repo.UnreadCount(c.Request.Context(), uid)
	c.JSON(http.StatusOK, app.H{"user": u, "unreadNotifications": unread})
}
