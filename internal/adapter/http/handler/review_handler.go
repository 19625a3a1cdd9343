package handler

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/middleware"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/usecase"
)

type ReviewHandler struct {
	reviews *usecase.ReviewUsecase
	logger  *logger.Logger
}

func NewReviewHandler(reviews *usecase.ReviewUsecase, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, logger: log.Named("ReviewHTTPHandler")}
}

func (h *ReviewHandler) HandleListReviews(w http.ResponseWriter, r *http.Request) {
	houseID, ok := pathID(r, "houseId")
	if !ok {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid house id"})
		return
	}
	page, err := h.reviews.ListByHouse(r.Context(), houseID, parseIntQueryParam(r, "page", 0), parseIntQueryParam(r, "size", 0))
	if err != nil {
		respondWithError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, toPageResponse(page, toReviewResponse))
}

func (h *ReviewHandler) HandleCreateReview(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	houseID, ok := pathID(r, "houseId")
	if !ok {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid house id"})
		return
	}
	var req reviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.reviews.Create(r.Context(), usecase.CreateReviewInput{
		HouseID: houseID,
		UserID:  user.ID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		respondWithError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, toReviewResponse(review))
}

func (h *ReviewHandler) HandleUpdateReview(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	houseID, okHouse := pathID(r, "houseId")
	reviewID, okReview := pathID(r, "reviewId")
	if !okHouse || !okReview {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id in path"})
		return
	}
	var req reviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.reviews.Update(r.Context(), usecase.UpdateReviewInput{
		ReviewID: reviewID,
		HouseID:  houseID,
		UserID:   user.ID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		respondWithError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, toReviewResponse(review))
}

func (h *ReviewHandler) HandleDeleteReview(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	houseID, okHouse := pathID(r, "houseId")
	reviewID, okReview := pathID(r, "reviewId")
	if !okHouse || !okReview {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id in path"})
		return
	}
	if err := h.reviews.Delete(r.Context(), reviewID, houseID, user.ID); err != nil {
		respondWithError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
