package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/terracaughta/geoguess/internal/countries"
	"github.com/terracaughta/geoguess/internal/game"
)

const testPoolJSON = `[{
	"name": {"common": "France"},
	"capital": ["Paris"],
	"flags": {"png": "https://flags.example/fr.png"},
	"population": 67000000,
	"currencies": {"EUR": {}},
	"borders": ["DEU", "ESP"],
	"cca2": "FR"
}]`

const testNeighborsJSON = `[
	{"name": {"common": "Germany"}, "population": 83000000},
	{"name": {"common": "Spain"}, "population": 47000000}
]`

const testGeoJSON = `[
	{"total": 1},
	[{"latitude": "46", "longitude": "2", "incomeLevel": {"value": "High income"}}]
]`

func geoOK(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(testGeoJSON))
}

func newTestDeps(t *testing.T, geoHandler http.HandlerFunc) Deps {
	t.Helper()

	directory := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/all":
			w.Write([]byte(testPoolJSON))
		case "/alpha":
			w.Write([]byte(testNeighborsJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(directory.Close)

	worldBank := httptest.NewServer(geoHandler)
	t.Cleanup(worldBank.Close)

	client := countries.NewClient(directory.URL, time.Second)
	evaluator, err := game.NewEvaluator()
	if err != nil {
		t.Fatalf("building evaluator: %v", err)
	}

	return Deps{
		Catalog:   countries.NewCatalog(client, time.Hour),
		Countries: client,
		Selector:  game.NewSelector(countries.NewWorldBank(worldBank.URL, time.Second), 5),
		Resolver:  game.NewClueResolver(client),
		Evaluator: evaluator,
	}
}

func testRouter(t *testing.T, deps Deps) *chi.Mux {
	t.Helper()
	r := chi.NewRouter()
	addRoutes(r, slog.New(slog.NewTextHandler(io.Discard, nil)), deps, "")
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		buf = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, buf)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, r http.Handler) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/sessions", CreateSessionRequest{PlayerName: "Maria"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create session: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp CreateSessionResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.SessionID == "" {
		t.Fatal("create session: expected a session id")
	}
	return resp.SessionID
}

func TestCreateSessionRequiresName(t *testing.T) {
	r := testRouter(t, newTestDeps(t, geoOK))

	w := doJSON(t, r, http.MethodPost, "/api/sessions", CreateSessionRequest{PlayerName: "  "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestUnknownSession(t *testing.T) {
	r := testRouter(t, newTestDeps(t, geoOK))

	w := doJSON(t, r, http.MethodPost, "/api/sessions/nope/round", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestRoundWinFlow(t *testing.T) {
	r := testRouter(t, newTestDeps(t, geoOK))
	id := createSession(t, r)

	// Start a round.
	w := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/round", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("new round: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var round RoundResponse
	json.NewDecoder(w.Body).Decode(&round)
	if round.Outcome != "in_progress" || round.ClueIndex != 0 {
		t.Fatalf("new round: outcome %q index %d", round.Outcome, round.ClueIndex)
	}
	if round.PointsAtStake != 10 {
		t.Errorf("new round: %d points at stake, want 10", round.PointsAtStake)
	}
	if len(round.Clues) != 1 {
		t.Fatalf("new round: %d clues revealed, want 1", len(round.Clues))
	}
	wantClue := "Approximate location: 46.00° N, 2.00° E. Economic classification: High income."
	if round.Clues[0] != wantClue {
		t.Errorf("clue 0 = %q, want %q", round.Clues[0], wantClue)
	}
	if round.Reveal != nil {
		t.Error("new round must not reveal the answer")
	}

	// Wrong guess reveals the population clue.
	w = doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/round/guess", GuessRequest{Guess: "Japan"})
	if w.Code != http.StatusOK {
		t.Fatalf("wrong guess: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var step StepResponse
	json.NewDecoder(w.Body).Decode(&step)
	if step.Outcome != "in_progress" || step.Correct {
		t.Fatalf("wrong guess: outcome %q correct %v", step.Outcome, step.Correct)
	}
	if step.Guess != "japan" {
		t.Errorf("wrong guess: echoed guess %q, want normalized %q", step.Guess, "japan")
	}
	if len(step.Clues) != 2 || step.Clues[1] != "Population: 67,000,000." {
		t.Errorf("wrong guess: clues = %v", step.Clues)
	}

	// Correct guess on clue index 1 wins 8 points.
	w = doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/round/guess", GuessRequest{Guess: "france"})
	if w.Code != http.StatusOK {
		t.Fatalf("winning guess: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	json.NewDecoder(w.Body).Decode(&step)
	if step.Outcome != "won" || !step.Correct {
		t.Fatalf("winning guess: outcome %q correct %v", step.Outcome, step.Correct)
	}
	if step.PointsAwarded != 8 || step.Points != 8 {
		t.Errorf("winning guess: awarded %d total %d, want 8 and 8", step.PointsAwarded, step.Points)
	}
	if step.CurrentStreak != 1 {
		t.Errorf("winning guess: streak %d, want 1", step.CurrentStreak)
	}
	if step.Reveal == nil || step.Reveal.Country != "France" || step.Reveal.Capital != "Paris" {
		t.Errorf("winning guess: reveal = %+v", step.Reveal)
	}

	// A finished round rejects further guesses.
	w = doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/round/guess", GuessRequest{Guess: "france"})
	if w.Code != http.StatusConflict {
		t.Errorf("guess after win: expected 409, got %d", w.Code)
	}

	// The next round reshuffles the single-country pool and starts again.
	w = doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/round", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("second round: expected 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSkipToLoss(t *testing.T) {
	r := testRouter(t, newTestDeps(t, geoOK))
	id := createSession(t, r)

	if w := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/round", nil); w.Code != http.StatusCreated {
		t.Fatalf("new round: expected 201, got %d", w.Code)
	}

	var step StepResponse
	for i := 1; i <= 4; i++ {
		w := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/round/skip", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("skip %d: expected 200, got %d: %s", i, w.Code, w.Body.String())
		}
		json.NewDecoder(w.Body).Decode(&step)
		if step.Outcome != "in_progress" || step.ClueIndex != i {
			t.Fatalf("skip %d: outcome %q index %d", i, step.Outcome, step.ClueIndex)
		}
	}

	// Skipping past the last clue loses the round.
	w := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/round/skip", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("final skip: expected 200, got %d", w.Code)
	}
	json.NewDecoder(w.Body).Decode(&step)
	if step.Outcome != "lost" {
		t.Fatalf("final skip: outcome %q, want lost", step.Outcome)
	}
	if step.CurrentStreak != 0 {
		t.Errorf("final skip: streak %d, want 0", step.CurrentStreak)
	}
	if step.Reveal == nil || step.Reveal.Country != "France" {
		t.Errorf("final skip: reveal = %+v", step.Reveal)
	}

	if w := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/round/skip", nil); w.Code != http.StatusConflict {
		t.Errorf("skip after loss: expected 409, got %d", w.Code)
	}
}

func TestEmptyGuessIsInvalidInput(t *testing.T) {
	r := testRouter(t, newTestDeps(t, geoOK))
	id := createSession(t, r)
	doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/round", nil)

	w := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/round/guess", GuessRequest{Guess: "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty guess: expected 400, got %d", w.Code)
	}

	// No transition happened: still on the first clue.
	w = doJSON(t, r, http.MethodGet, "/api/sessions/"+id+"/round", nil)
	var round RoundResponse
	json.NewDecoder(w.Body).Decode(&round)
	if round.Outcome != "in_progress" || round.ClueIndex != 0 {
		t.Errorf("after empty guess: outcome %q index %d, want in_progress 0", round.Outcome, round.ClueIndex)
	}
}

func TestGuessWithoutRound(t *testing.T) {
	r := testRouter(t, newTestDeps(t, geoOK))
	id := createSession(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/round/guess", GuessRequest{Guess: "france"})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestNewRoundConflictWhileInProgress(t *testing.T) {
	r := testRouter(t, newTestDeps(t, geoOK))
	id := createSession(t, r)
	doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/round", nil)

	w := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/round", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestSelectionFailure(t *testing.T) {
	deps := newTestDeps(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	r := testRouter(t, deps)
	id := createSession(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/round", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when geo lookups keep failing, got %d", w.Code)
	}
}

func TestEndSession(t *testing.T) {
	r := testRouter(t, newTestDeps(t, geoOK))
	id := createSession(t, r)

	doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/round", nil)
	doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/round/guess", GuessRequest{Guess: "france"})

	w := doJSON(t, r, http.MethodDelete, "/api/sessions/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("end session: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var summary SessionSummaryResponse
	json.NewDecoder(w.Body).Decode(&summary)
	if summary.FinalPoints != 10 || summary.FinalStreak != 1 {
		t.Errorf("summary = %+v, want 10 points streak 1", summary)
	}

	// The session is gone.
	w = doJSON(t, r, http.MethodGet, "/api/sessions/"+id+"/round", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("after end: expected 404, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	r := testRouter(t, newTestDeps(t, geoOK))

	w := doJSON(t, r, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp HealthResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
}
