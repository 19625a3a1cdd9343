package handler

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/middleware"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/usecase"
)

type HouseHandler struct {
	houses *usecase.HouseUsecase
	view   *usecase.HouseViewBuilder
	logger *logger.Logger
}

func NewHouseHandler(houses *usecase.HouseUsecase, view *usecase.HouseViewBuilder, log *logger.Logger) *HouseHandler {
	return &HouseHandler{houses: houses, view: view, logger: log.Named("HouseHTTPHandler")}
}

func (h *HouseHandler) HandleListHouses(w http.ResponseWriter, r *http.Request) {
	page, err := h.houses.ListHouses(r.Context(),
		r.URL.Query().Get("order"),
		parseIntQueryParam(r, "page", 0),
		parseIntQueryParam(r, "size", 0),
	)
	if err != nil {
		respondWithError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, toPageResponse(page, toHouseResponse))
}

func (h *HouseHandler) HandleGetHouse(w http.ResponseWriter, r *http.Request) {
	houseID, ok := pathID(r, "houseId")
	if !ok {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid house id"})
		return
	}
	view, err := h.view.BuildDetailView(r.Context(), houseID, middleware.UserFromContext(r.Context()))
	if err != nil {
		respondWithError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, toHouseDetailResponse(view))
}

func (h *HouseHandler) HandleCreateHouse(w http.ResponseWriter, r *http.Request) {
	var req createHouseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	house, err := h.houses.CreateHouse(r.Context(), usecase.CreateHouseInput{
		Name:        req.Name,
		ImageName:   req.ImageName,
		Description: req.Description,
		Price:       req.Price,
		Capacity:    req.Capacity,
		PostalCode:  req.PostalCode,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		respondWithError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, toHouseResponse(house))
}

func (h *HouseHandler) HandleDeleteHouse(w http.ResponseWriter, r *http.Request) {
	houseID, ok := pathID(r, "houseId")
	if !ok {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid house id"})
		return
	}
	if err := h.houses.DeleteHouse(r.Context(), houseID); err != nil {
		respondWithError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
