package handler

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/middleware"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/usecase"
)

const noFavoritesMessage = "no favorites found"

type FavoriteHandler struct {
	favorites *usecase.FavoriteUsecase
	logger    *logger.Logger
}

func NewFavoriteHandler(favorites *usecase.FavoriteUsecase, log *logger.Logger) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, logger: log.Named("FavoriteHTTPHandler")}
}

func (h *FavoriteHandler) HandleListFavorites(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	page, err := h.favorites.ListByUser(r.Context(), user.ID, parseIntQueryParam(r, "page", 0), parseIntQueryParam(r, "size", 0))
	if err != nil {
		respondWithError(w, err, h.logger)
		return
	}
	resp := toPageResponse(page, toFavoriteResponse)
	if page.IsEmpty() {
		resp.Message = noFavoritesMessage
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (h *FavoriteHandler) HandleCreateFavorite(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	houseID, ok := pathID(r, "houseId")
	if !ok {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid house id"})
		return
	}
	fav, err := h.favorites.Create(r.Context(), houseID, user.ID)
	if err != nil {
		respondWithError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, toFavoriteResponse(fav))
}

func (h *FavoriteHandler) HandleDeleteFavorite(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	houseID, okHouse := pathID(r, "houseId")
	favoriteID, okFav := pathID(r, "favoriteId")
	if !okHouse || !okFav {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id in path"})
		return
	}
	if err := h.favorites.Delete(r.Context(), favoriteID, houseID, user.ID); err != nil {
		respondWithError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
