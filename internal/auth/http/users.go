package http

import (
	"errors"
	"net/http"

	"github.com/reelbase/reelbase/internal/auth/store"
	"github.com/reelbase/reelbase/pkg/httpx"
)

// UsersHandler serves the admin-only account lookup.
type UsersHandler struct {
	Store store.Store
}

// HandleGet godoc
//
//	@Summary		Look up a user
//	@Description	Returns the profile of any account by id. Admin role required.
//	@Tags			Auth
//	@Produce		json
//	@Param			id	path		string	true	"User ID"
//	@Success		200	{object}	UserResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/auth/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	u, err := h.Store.Users().GetUserByID(r.Context(), r.PathValue("id"))
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
