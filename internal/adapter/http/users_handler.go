package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ATjewellers01/zold-cart-api/internal/usecase"
)

type UsersHandler struct {
	users usecase.UserRepo
}

func NewUsersHandler(users usecase.UserRepo) *UsersHandler {
	return &UsersHandler{users: users}
}

type userResp struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Verified bool   `json:"verified"`
}

// List is the admin user table source. search= matches name or email,
// role= filters on ADMIN/USER ("ALL" and empty mean no filter).
func (h *UsersHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	recs, err := h.users.List(ctx, c.Query("search"), c.Query("role"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	out := make([]userResp, 0, len(recs))
	for _, r := range recs {
		out = append(out, userResp{
			ID:       r.ID,
			Name:     r.Name,
			Email:    r.Email,
			Role:     r.Role,
			Verified: r.Verified,
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": out, "total": len(out)})
}
