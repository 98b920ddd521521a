package http

import (
	"errors"
	"net/http"

	"github.com/reelbase/reelbase/internal/auth/store"
	"github.com/reelbase/reelbase/pkg/httpx"
)

// MeHandler serves GET /api/auth/me behind the authn middleware.
type MeHandler struct {
	Store store.Store
}

// ServeHTTP godoc
//
//	@Summary		Current user
//	@Description	Returns the profile of the authenticated user.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	UserResponse
//	@Failure		401	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/auth/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromContext(r.Context())
	if userID == "" {
		errInvalidRefresh.WriteError(w)
		return
	}

	u, err := h.Store.Users().GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			errUserNotFound.WriteError(w)
			return
		}
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Role:  u.Role.String(),
	})
}
