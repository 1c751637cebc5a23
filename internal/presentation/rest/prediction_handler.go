package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/bibbank/safepay/internal/application/dto"
	"github.com/bibbank/safepay/internal/application/usecase"
)

const maxBodyBytes = 1 << 20

// PredictionHandler serves the /v1 API.
type PredictionHandler struct {
	predict   *usecase.PredictTransaction
	get       *usecase.GetPrediction
	list      *usecase.ListPredictions
	validate  *usecase.ValidateTransaction
	insights  *usecase.GetInsights
	modelInfo *usecase.GetModelInfo
	logger    *slog.Logger
}

// UseCases bundles what PredictionHandler dispatches to.
type UseCases struct {
	Predict   *usecase.PredictTransaction
	Get       *usecase.GetPrediction
	List      *usecase.ListPredictions
	Validate  *usecase.ValidateTransaction
	Insights  *usecase.GetInsights
	ModelInfo *usecase.GetModelInfo
}

func NewPredictionHandler(uc UseCases, logger *slog.Logger) *PredictionHandler {
	return &PredictionHandler{
		predict:   uc.Predict,
		get:       uc.Get,
		list:      uc.List,
		validate:  uc.Validate,
		insights:  uc.Insights,
		modelInfo: uc.ModelInfo,
		logger:    logger,
	}
}

// RegisterRoutes attaches the API routes to mux.
func (h *PredictionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/predictions", h.createPrediction)
	mux.HandleFunc("GET /v1/predictions", h.listPredictions)
	mux.HandleFunc("GET /v1/predictions/{id}", h.getPrediction)
	mux.HandleFunc("POST /v1/transactions/validate", h.validateTransaction)
	mux.HandleFunc("GET /v1/insights", h.getInsights)
	mux.HandleFunc("GET /v1/model", h.getModelInfo)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body: "+err.Error())
		return false
	}
	return true
}

func (h *PredictionHandler) createPrediction(w http.ResponseWriter, r *http.Request) {
	var req dto.PredictRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.predict.Execute(r.Context(), req)
	if err != nil {
		writeUseCaseError(w, h.logger, err)
		return
	}
	w.Header().Set("Location", "/v1/predictions/"+resp.ID.String())
	writeJSON(w, http.StatusCreated, resp)
}

func (h *PredictionHandler) getPrediction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid prediction id")
		return
	}

	resp, err := h.get.Execute(r.Context(), dto.GetPredictionRequest{PredictionID: id})
	if err != nil {
		writeUseCaseError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PredictionHandler) listPredictions(w http.ResponseWriter, r *http.Request) {
	var req dto.ListPredictionsRequest
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "limit must be an integer")
			return
		}
		req.Limit = limit
	}

	resp, err := h.list.Execute(r.Context(), req)
	if err != nil {
		writeUseCaseError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PredictionHandler) validateTransaction(w http.ResponseWriter, r *http.Request) {
	var req dto.ValidateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.validate.Execute(r.Context(), req))
}

func (h *PredictionHandler) getInsights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.insights.Execute(r.Context()))
}

func (h *PredictionHandler) getModelInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.modelInfo.Execute(r.Context()))
}
