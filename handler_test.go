package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lg/nutrition-go-api/internal/logger"
	"lg/nutrition-go-api/internal/nutrition"
)

/* ─── Fakes ──────────────────────────────────────────────────────────── */

// memStore is an in-memory userStore.
type memStore struct {
	mu       sync.Mutex
	nextID   int
	users    map[string]user
	profiles map[int]userProfile
	failAll  bool
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, users: map[string]user{}, profiles: map[int]userProfile{}}
}

var errStoreDown = errors.New("store down")

func (s *memStore) userByUsername(ctx context.Context, username string) (user, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return user{}, errStoreDown
	}
	u, ok := s.users[username]
	if !ok {
		return user{}, errNotFound
	}
	return u, nil
}

func (s *memStore) userIDByToken(ctx context.Context, token string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.AuthToken == token {
			return u.ID, nil
		}
	}
	return 0, errNotFound
}

func (s *memStore) createUser(ctx context.Context, u user, p userProfile) (user, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Username]; ok {
		return user{}, errUsernameTaken
	}
	u.ID = s.nextID
	s.nextID++
	s.users[u.Username] = u
	p.UserID = u.ID
	s.profiles[u.ID] = p
	return u, nil
}

func (s *memStore) profile(ctx context.Context, userID int) (userProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return userProfile{}, errStoreDown
	}
	p, ok := s.profiles[userID]
	if !ok {
		return userProfile{}, errNotFound
	}
	return p, nil
}

func (s *memStore) updateProfile(ctx context.Context, userID int, patch patchProfileRequest) (userProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return userProfile{}, errNotFound
	}
	changed := false
	if patch.Sex != nil {
		p.Sex, changed = *patch.Sex, true
	}
	if patch.Age != nil {
		p.Age, changed = *patch.Age, true
	}
	if patch.HeightCM != nil {
		p.HeightCM, changed = *patch.HeightCM, true
	}
	if patch.WeightKG != nil {
		p.WeightKG, changed = *patch.WeightKG, true
	}
	if patch.ActivityLevel != nil {
		p.ActivityLevel, changed = *patch.ActivityLevel, true
	}
	if patch.Goal != nil {
		p.Goal, changed = *patch.Goal, true
	}
	if !changed {
		return userProfile{}, errNoFields
	}
	s.profiles[userID] = p
	return p, nil
}

// seed adds a user with a fixed token and profile, bypassing bcrypt.
func (s *memStore) seed(token string, p userProfile) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.users[token] = user{ID: id, Username: token, AuthToken: token}
	p.UserID = id
	s.profiles[id] = p
	return id
}

// fakeLookup returns fixed foods or a fixed error and records the last query.
type fakeLookup struct {
	mu        sync.Mutex
	foods     []nutrition.RawFood
	err       error
	lastQuery string
}

func (f *fakeLookup) Lookup(ctx context.Context, query string) ([]nutrition.RawFood, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = query
	return f.foods, f.err
}

/* ─── Setup helpers ──────────────────────────────────────────────────── */

// referenceProfile is a 30-year-old inactive male, 175cm and 70kg.
// BMR = 1695.667, TEE = 2552.67.
var referenceProfile = userProfile{
	Sex: "male", Age: 30, HeightCM: 175, WeightKG: 70,
	ActivityLevel: "inactive", Goal: "muscle_gain",
}

// setupHandlerTest wires a Handler to fakes and returns the router.
func setupHandlerTest(t *testing.T) (*gin.Engine, *memStore, *fakeLookup) {
	gin.SetMode(gin.TestMode)
	store := newMemStore()
	lookup := &fakeLookup{}
	h := &Handler{
		store:            store,
		foods:            lookup,
		log:              logger.NewTestLogger(t),
		rankDefaultLimit: 10,
		rankMaxLimit:     2,
	}
	router := gin.New()
	router.Use(requestLogger(h.log))
	h.registerRoutes(router)
	return router, store, lookup
}

// doRequest sends a request with an optional bearer token and JSON body.
func doRequest(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	return decodeBody[map[string]string](t, w)["error"]
}

func rawFood(name, id string, kcal, protein, fat, carbs float64) nutrition.RawFood {
	n := func(name string, v float64) nutrition.RawFoodNutrient {
		return nutrition.RawFoodNutrient{Nutrient: nutrition.RawNutrient{Name: name}, Amount: v}
	}
	return nutrition.RawFood{
		Description: name,
		FdcID:       id,
		FoodNutrients: []nutrition.RawFoodNutrient{
			n("Energy", kcal),
			n("Protein", protein),
			n("Total lipid (fat)", fat),
			n("Carbohydrate, by difference", carbs),
		},
	}
}

const validRegisterBody = `{
	"username": "alice",
	"password": "hunter2",
	"confirm_password": "hunter2",
	"email": "alice@example.com",
	"profile": {"sex": "female", "age": 28, "height_cm": 160, "weight_kg": 55,
	            "activity_level": "active", "goal": "fat_loss"}
}`

/* ─── Register / login tests ─────────────────────────────────────────── */

func TestRegisterLogin_RoundTrip(t *testing.T) {
	router, store, _ := setupHandlerTest(t)

	w := doRequest(router, "POST", "/api/register", "", validRegisterBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decodeBody[map[string]interface{}](t, w)
	token, _ := reg["token"].(string)
	require.NotEmpty(t, token)

	p, err := store.profile(context.Background(), int(reg["user_id"].(float64)))
	require.NoError(t, err)
	assert.Equal(t, "fat_loss", p.Goal)
	assert.Equal(t, 55.0, p.WeightKG)

	w = doRequest(router, "POST", "/api/login", "", `{"username":"alice","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, token, decodeBody[map[string]interface{}](t, w)["token"])

	w = doRequest(router, "GET", "/api/profile", token, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	router, _, _ := setupHandlerTest(t)
	require.Equal(t, http.StatusCreated, doRequest(router, "POST", "/api/register", "", validRegisterBody).Code)

	w := doRequest(router, "POST", "/api/login", "", `{"username":"alice","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", errorMessage(t, w))

	w = doRequest(router, "POST", "/api/login", "", `{"username":"nobody","password":"hunter2"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			"password mismatch",
			strings.Replace(validRegisterBody, `"confirm_password": "hunter2"`, `"confirm_password": "hunter3"`, 1),
			"passwords do not match",
		},
		{
			"short password",
			strings.ReplaceAll(validRegisterBody, "hunter2", "abc"),
			"password",
		},
		{
			"short username",
			strings.Replace(validRegisterBody, `"alice"`, `"al"`, 1),
			"username",
		},
		{
			"unknown activity level",
			strings.Replace(validRegisterBody, `"active"`, `"couch"`, 1),
			"activity_level",
		},
		{
			"unknown goal",
			strings.Replace(validRegisterBody, `"fat_loss"`, `"bulk"`, 1),
			"goal",
		},
		{
			"fractional age",
			strings.Replace(validRegisterBody, `"age": 28`, `"age": 28.5`, 1),
			"age",
		},
		{
			"zero weight",
			strings.Replace(validRegisterBody, `"weight_kg": 55`, `"weight_kg": 0`, 1),
			"weight_kg",
		},
		{"not json", `{"username":`, "invalid request body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, _, _ := setupHandlerTest(t)
			w := doRequest(router, "POST", "/api/register", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Contains(t, errorMessage(t, w), tc.want)
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	router, _, _ := setupHandlerTest(t)
	require.Equal(t, http.StatusCreated, doRequest(router, "POST", "/api/register", "", validRegisterBody).Code)

	w := doRequest(router, "POST", "/api/register", "", validRegisterBody)
	assert.Equal(t, http.StatusConflict, w.Code)
}

/* ─── Auth middleware tests ──────────────────────────────────────────── */

func TestAuthMiddleware(t *testing.T) {
	router, _, _ := setupHandlerTest(t)

	w := doRequest(router, "GET", "/api/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "missing or invalid authorization header", errorMessage(t, w))

	w = doRequest(router, "GET", "/api/energy", "not-a-token", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid token", errorMessage(t, w))
}

/* ─── Profile tests ──────────────────────────────────────────────────── */

func TestPatchProfile(t *testing.T) {
	router, store, _ := setupHandlerTest(t)
	id := store.seed("tok", referenceProfile)

	w := doRequest(router, "PATCH", "/api/profile", "tok", `{"weight_kg": 72.5, "goal": "fat_loss"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decodeBody[userProfile](t, w)
	assert.Equal(t, 72.5, got.WeightKG)
	assert.Equal(t, "fat_loss", got.Goal)
	assert.Equal(t, 175.0, got.HeightCM, "fields not sent stay unchanged")

	p, _ := store.profile(context.Background(), id)
	assert.Equal(t, 72.5, p.WeightKG)
}

func TestPatchProfile_Rejects(t *testing.T) {
	router, store, _ := setupHandlerTest(t)
	store.seed("tok", referenceProfile)

	for _, body := range []string{
		`{}`,
		`{"weight_lbs": 150}`,
		`{"sex": "robot"}`,
		`{"age": -1}`,
	} {
		w := doRequest(router, "PATCH", "/api/profile", "tok", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestGetProfile_StoreFailure(t *testing.T) {
	router, store, _ := setupHandlerTest(t)
	store.seed("tok", referenceProfile)
	store.failAll = true

	w := doRequest(router, "GET", "/api/profile", "tok", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

/* ─── Energy tests ───────────────────────────────────────────────────── */

// TestGetEnergy checks the reference profile.
//
// BMR = 1695.667, TEE = 2552.67, protein per meal = 85.089
// one meal = 2552.67 / 3 = 850.89 kcal -> running 85 min
func TestGetEnergy(t *testing.T) {
	router, store, _ := setupHandlerTest(t)
	store.seed("tok", referenceProfile)

	w := doRequest(router, "GET", "/api/energy", "tok", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[energyResponse](t, w)
	assert.InDelta(t, 1695.667, resp.BMR, 1e-9)
	assert.InDelta(t, 2552.67, resp.TEE, 1e-9)
	assert.InDelta(t, 22.857, resp.BMI, 1e-3)
	assert.InDelta(t, 85.089, resp.Targets.ProteinG, 1e-9)
	assert.Equal(t, 3, resp.MealsPerDay)
	require.Len(t, resp.BurnOneMeal, 4)
	assert.Equal(t, "Running", string(resp.BurnOneMeal[0].Activity))
	assert.Equal(t, 85, resp.BurnOneMeal[0].TimeMin)
}

func TestGetEnergy_NoProfile(t *testing.T) {
	router, store, _ := setupHandlerTest(t)
	store.seed("tok", referenceProfile)
	store.profiles = map[int]userProfile{}

	w := doRequest(router, "GET", "/api/energy", "tok", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

/* ─── Rank tests ─────────────────────────────────────────────────────── */

func TestRankFoods_Ordering(t *testing.T) {
	router, store, lookup := setupHandlerTest(t)
	store.seed("tok", referenceProfile)
	lookup.foods = []nutrition.RawFood{
		rawFood("SODA", "1", 140, 0, 0, 39),
		rawFood("CHICKEN BREAST", "2", 165, 31, 3.6, 0),
		rawFood("WATER", "3", 0, 0, 0, 0),
	}

	w := doRequest(router, "GET", "/api/foods/rank?q=+chicken+&limit=5", "tok", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "chicken", lookup.lastQuery)

	var resp struct {
		Goal  string `json:"goal"`
		Foods []struct {
			Name        string             `json:"food_name"`
			TotalScore  float64            `json:"total_score"`
			Nutrients   map[string]float64 `json:"nutrients"`
			DailyValues map[string]float64 `json:"daily_values"`
		} `json:"foods"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "muscle_gain", resp.Goal)
	// rankMaxLimit is 2 in tests, so limit=5 is clamped.
	require.Len(t, resp.Foods, 2)
	assert.Equal(t, "CHICKEN BREAST", resp.Foods[0].Name)
	assert.Equal(t, "SODA", resp.Foods[1].Name)
	assert.GreaterOrEqual(t, resp.Foods[0].TotalScore, resp.Foods[1].TotalScore)
	assert.Equal(t, 31.0, resp.Foods[0].Nutrients["Protein (g)"])
	assert.InDelta(t, 31.0/50, resp.Foods[0].DailyValues["Protein (g)"], 1e-9)
}

func TestRankFoods_GoalOverride(t *testing.T) {
	router, store, lookup := setupHandlerTest(t)
	store.seed("tok", referenceProfile)
	lookup.foods = []nutrition.RawFood{rawFood("OATS", "1", 389, 16.9, 6.9, 66)}

	w := doRequest(router, "GET", "/api/foods/rank?q=oats&goal=fat_loss", "tok", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fat_loss", decodeBody[map[string]interface{}](t, w)["goal"])

	w = doRequest(router, "GET", "/api/foods/rank?q=oats&goal=bulk", "tok", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `unknown goal "bulk"`, errorMessage(t, w))
}

func TestRankFoods_BadParams(t *testing.T) {
	router, store, _ := setupHandlerTest(t)
	store.seed("tok", referenceProfile)

	for _, path := range []string{
		"/api/foods/rank",
		"/api/foods/rank?q=%20%20",
		"/api/foods/rank?q=oats&limit=0",
		"/api/foods/rank?q=oats&limit=ten",
	} {
		w := doRequest(router, "GET", path, "tok", "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestRankFoods_LookupFailure(t *testing.T) {
	router, store, lookup := setupHandlerTest(t)
	store.seed("tok", referenceProfile)
	lookup.err = errors.New("fdc returned status 503")

	w := doRequest(router, "GET", "/api/foods/rank?q=oats", "tok", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "food lookup failed", errorMessage(t, w))
}

// TestRankFoods_NonPositiveTEE uses a newborn profile whose TEE is negative.
//
// male infant: -716.45 - 1.00*0 + 17.82*10 + 15.06*1 = -523.19
func TestRankFoods_NonPositiveTEE(t *testing.T) {
	router, store, lookup := setupHandlerTest(t)
	store.seed("tok", userProfile{
		Sex: "male", Age: 0, HeightCM: 10, WeightKG: 1,
		ActivityLevel: "inactive", Goal: "muscle_gain",
	})
	lookup.foods = []nutrition.RawFood{rawFood("MILK", "1", 60, 3, 3, 5)}

	w := doRequest(router, "GET", "/api/foods/rank?q=milk", "tok", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, errorMessage(t, w), "invalid tee target")
}

func TestRankFoods_MalformedNutrientsCounted(t *testing.T) {
	router, store, lookup := setupHandlerTest(t)
	store.seed("tok", referenceProfile)
	bad := rawFood("BAR", "9", 200, 10, 8, 20)
	bad.FoodNutrients[1].Amount = "lots"
	lookup.foods = []nutrition.RawFood{bad}

	w := doRequest(router, "GET", "/api/foods/rank?q=bar", "tok", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeBody[map[string]interface{}](t, w)["skipped_nutrients"])
}

func TestRankFoods_EmptyLookup(t *testing.T) {
	router, store, lookup := setupHandlerTest(t)
	store.seed("tok", referenceProfile)
	lookup.foods = []nutrition.RawFood{}

	w := doRequest(router, "GET", "/api/foods/rank?q=xyzzy", "tok", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"foods":[]`)
}

/* ─── Exercise tests ─────────────────────────────────────────────────── */

// TestExerciseEquivalents: 600 kcal at BMI 22.86, age 30 -> running 60 min, 9 km.
func TestExerciseEquivalents(t *testing.T) {
	router, store, _ := setupHandlerTest(t)
	store.seed("tok", referenceProfile)

	w := doRequest(router, "GET", "/api/exercise/equivalents?calories=600", "tok", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Equivalents []struct {
			Activity   string  `json:"activity"`
			TimeMin    int     `json:"time_min"`
			DistanceKM float64 `json:"distance_km"`
		} `json:"equivalents"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Equivalents, 4)
	assert.Equal(t, "Running", resp.Equivalents[0].Activity)
	assert.Equal(t, 60, resp.Equivalents[0].TimeMin)
	assert.InDelta(t, 9.0, resp.Equivalents[0].DistanceKM, 1e-9)
	assert.Equal(t, "Walking", resp.Equivalents[3].Activity)
}

func TestExerciseEquivalents_BadCalories(t *testing.T) {
	router, store, _ := setupHandlerTest(t)
	store.seed("tok", referenceProfile)

	for _, q := range []string{"", "abc", "-5", "NaN", "Inf"} {
		w := doRequest(router, "GET", "/api/exercise/equivalents?calories="+q, "tok", "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

/* ─── Health ─────────────────────────────────────────────────────────── */

func TestHealthz(t *testing.T) {
	router, _, _ := setupHandlerTest(t)
	w := doRequest(router, "GET", "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
