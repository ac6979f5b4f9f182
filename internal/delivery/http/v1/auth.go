package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"planboard/internal/services"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Name     string `json:"name" binding:"max=255"`
	Role     string `json:"role"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

func (h *handlerImpl) HandleRegister(c *gin.Context) {
	var req registerRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	user, err := h.auth.Register(c, services.RegisterParams{
		Email:    req.Email,
		Name:     req.Name,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

type loginResponse struct {
	UserID      string `json:"userId"`
	AccessToken string `json:"accessToken"`
	ExpiresAt   string `json:"expiresAt"`
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var req loginRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	result, err := h.auth.Login(c, req.Email, req.Password)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{
		UserID:      result.UserID,
		AccessToken: result.AccessToken,
		ExpiresAt:   result.AccessTokenExpiresAt.UTC().Format(http.TimeFormat),
	})
}

type createTokenRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

type createTokenResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Secret string `json:"secret"`
}

func (h *handlerImpl) HandleCreateToken(c *gin.Context) {
	userID := c.GetString(userIDCtxKey)
	if userID == "" {
		abort(c, newUnauthorizedError(http.StatusText(http.StatusUnauthorized)))
		return
	}

	var req createTokenRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	result, err := h.auth.CreateToken(c, userID, req.Name)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createTokenResponse{
		ID:     result.Token.ID,
		Name:   result.Token.Name,
		Secret: result.Secret,
	})
}

func (h *handlerImpl) HandleListTokens(c *gin.Context) {
	userID := c.GetString(userIDCtxKey)
	if userID == "" {
		abort(c, newUnauthorizedError(http.StatusText(http.StatusUnauthorized)))
		return
	}

	tokens, err := h.auth.ListTokens(c, userID)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

func (h *handlerImpl) HandleDeleteToken(c *gin.Context) {
	err := h.auth.DeleteToken(c, c.Param("id"))
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
