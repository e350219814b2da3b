package handlers

import (
	"net/http"

	"github.com/fiftyhertz/agriapi/internal/response"
	"github.com/fiftyhertz/agriapi/internal/service"
	"github.com/sirupsen/logrus"
)

type HomeHandlers struct {
	homeService *service.HomeService
	logger      *logrus.Logger
}

func NewHomeHandlers(homeService *service.HomeService, logger *logrus.Logger) *HomeHandlers {
	return &HomeHandlers{
		homeService: homeService,
		logger:      logger,
	}
}

type HomeDataResponse struct {
	LandSizeUnits         []lookupRow `json:"landSizeUnits"`
	Harvesters            []lookupRow `json:"harvesters"`
	CropTypes             []lookupRow `json:"cropTypes"`
	TransportArrangements []lookupRow `json:"transportArrangements"`
}

func (h *HomeHandlers) GetHomeData(w http.ResponseWriter, r *http.Request) {
	data, err := h.homeService.GetHomeData(r.Context())
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, "Home data fetched successfully", HomeDataResponse{
		LandSizeUnits:         newLookupRows(data.LandSizeUnits),
		Harvesters:            newLookupRows(data.Harvesters),
		CropTypes:             newLookupRows(data.CropTypes),
		TransportArrangements: newLookupRows(data.TransportArrangements),
	})
}
