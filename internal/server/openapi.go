package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "TerraCaughta API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the TerraCaughta country-guessing game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Reports upstream directory reachability and catalog cache age.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/sessions
	postSession, _ := r.NewOperationContext(http.MethodPost, "/api/sessions")
	postSession.SetSummary("Create session")
	postSession.SetDescription("Starts a play session for a named player. All session state is in-memory.")
	postSession.AddReqStructure(CreateSessionRequest{})
	postSession.AddRespStructure(CreateSessionResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postSession)

	// POST /api/sessions/{sessionID}/round
	postRound, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{sessionID}/round")
	postRound.SetSummary("Start round")
	postRound.SetDescription("Selects a new mystery country and builds its clue funnel.")
	postRound.AddRespStructure(RoundResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRound.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postRound.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postRound.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(postRound)

	// GET /api/sessions/{sessionID}/round
	getRound, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{sessionID}/round")
	getRound.SetSummary("Round state")
	getRound.SetDescription("Returns the revealed clues and outcome of the current round.")
	getRound.AddRespStructure(RoundResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getRound.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getRound)

	// POST /api/sessions/{sessionID}/round/guess
	postGuess, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{sessionID}/round/guess")
	postGuess.SetSummary("Submit guess")
	postGuess.SetDescription("Evaluates a guess against the mystery country. A miss reveals the next clue; a miss on the last clue loses the round.")
	postGuess.AddReqStructure(GuessRequest{})
	postGuess.AddRespStructure(StepResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postGuess)

	// POST /api/sessions/{sessionID}/round/skip
	postSkip, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{sessionID}/round/skip")
	postSkip.SetSummary("Skip to next clue")
	postSkip.SetDescription("Reveals the next clue without a guess. Skipping past the last clue loses the round.")
	postSkip.AddRespStructure(StepResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSkip.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postSkip.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postSkip)

	// GET /api/sessions/{sessionID}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{sessionID}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of round lifecycle events for the session.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// DELETE /api/sessions/{sessionID}
	deleteSession, _ := r.NewOperationContext(http.MethodDelete, "/api/sessions/{sessionID}")
	deleteSession.SetSummary("End session")
	deleteSession.SetDescription("Ends the session and returns the final points and streak. State is discarded.")
	deleteSession.AddRespStructure(SessionSummaryResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	deleteSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteSession)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
