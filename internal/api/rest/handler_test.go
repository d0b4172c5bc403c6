package rest_test

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sendblocks/custom-indexer-example/internal/api/middleware"
	"github.com/sendblocks/custom-indexer-example/internal/api/rest"
	"github.com/sendblocks/custom-indexer-example/internal/api/rest/dto"
	"github.com/sendblocks/custom-indexer-example/internal/domain"
	"github.com/sendblocks/custom-indexer-example/internal/kv"
	"github.com/sendblocks/custom-indexer-example/internal/ledger"
	"github.com/sendblocks/custom-indexer-example/internal/logger"
	"github.com/sendblocks/custom-indexer-example/internal/mocks"
)

const (
	testNamespace = "ledger"
	testSecret    = "test-jwt-secret"
	testContract  = "0x06012c8cf97bead5deae237070f9587f8e7a266d"

	zeroAddress = "0x0000000000000000000000000000000000000000"
	alice       = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	bob         = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"

	tokenHexOne = "0x0000000000000000000000000000000000000000000000000000000000000001"
	tokenHexTwo = "0x0000000000000000000000000000000000000000000000000000000000000002"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testAPI struct {
	router    *gin.Engine
	updater   *ledger.Updater
	publisher *mocks.MockPublisher
}

// newTestAPI builds a router over an in-memory store and a mocked publisher
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	store := kv.NewMemoryStore()
	updater := ledger.NewUpdater(store, testNamespace)
	publisher := mocks.NewMockPublisher(ctrl)

	handler := rest.NewHandler(false, updater, store, testNamespace, publisher)

	router := gin.New()
	rest.SetupRoutes(router, handler, middleware.AuthConfig{JWTSecret: testSecret})

	return &testAPI{router: router, updater: updater, publisher: publisher}
}

func signToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   "ops",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func addressTopic(address string) string {
	return common.HexToHash(address).Hex()
}

func transferLog() domain.RawLog {
	return domain.RawLog{
		ContractAddress: testContract,
		Topics: []string{
			crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)")).Hex(),
			addressTopic(zeroAddress),
			addressTopic(alice),
			tokenHexOne,
		},
		Data:        "0x",
		BlockNumber: 4605167,
		TxHash:      "0x" + strings.Repeat("12", 32),
		LogIndex:    7,
	}
}

func replayBody(t *testing.T, trigger string, log domain.RawLog) *strings.Reader {
	t.Helper()

	payload, err := json.Marshal(dto.ReplayRequest{Trigger: trigger, Log: log})
	require.NoError(t, err)
	return strings.NewReader(string(payload))
}

func TestHandler_GetToken(t *testing.T) {
	t.Run("returns a stored record", func(t *testing.T) {
		api := newTestAPI(t)
		_, err := api.updater.ApplyTransfer(context.Background(), zeroAddress, alice, big.NewInt(1))
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/tokens/1", nil)
		api.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, fmt.Sprintf(
			`{"token_id":%q,"owner":%q,"previous_owner":%q,"approved":null}`,
			tokenHexOne, alice, zeroAddress,
		), w.Body.String())
	})

	t.Run("accepts hex token ids", func(t *testing.T) {
		api := newTestAPI(t)
		_, err := api.updater.ApplyTransfer(context.Background(), zeroAddress, alice, big.NewInt(1))
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/tokens/0x1", nil)
		api.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), tokenHexOne)
	})

	t.Run("unknown token returns 404", func(t *testing.T) {
		api := newTestAPI(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/tokens/2", nil)
		api.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":{"code":"not_found","message":"Token not found"}}`, w.Body.String())
	})

	t.Run("malformed token id returns 400", func(t *testing.T) {
		api := newTestAPI(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/tokens/not-a-number", nil)
		api.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "bad_request")
		assert.Contains(t, w.Body.String(), "Invalid token ID")
	})

	t.Run("oversized token id returns 400", func(t *testing.T) {
		api := newTestAPI(t)

		// 2^256 does not fit a uint256
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/tokens/0x1"+strings.Repeat("0", 64), nil)
		api.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid token ID")
	})
}

func TestHandler_ListTokens(t *testing.T) {
	seed := func(t *testing.T, api *testAPI) {
		t.Helper()
		ctx := context.Background()

		_, err := api.updater.ApplyTransfer(ctx, zeroAddress, alice, big.NewInt(1))
		require.NoError(t, err)
		_, err = api.updater.ApplyTransfer(ctx, zeroAddress, bob, big.NewInt(2))
		require.NoError(t, err)
		_, err = api.updater.ApplyTransfer(ctx, zeroAddress, alice, big.NewInt(3))
		require.NoError(t, err)
	}

	t.Run("lists all records ordered by token id", func(t *testing.T) {
		api := newTestAPI(t)
		seed(t, api)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/tokens", nil)
		api.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var response dto.TokenListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, int64(3), response.Total)
		require.Len(t, response.Tokens, 3)
		assert.Equal(t, tokenHexOne, response.Tokens[0].TokenID)
		assert.Equal(t, alice, response.Tokens[0].Owner)
		assert.Equal(t, tokenHexTwo, response.Tokens[1].TokenID)
		assert.Equal(t, bob, response.Tokens[1].Owner)
		assert.NotNil(t, response.Tokens[0].UpdatedAt)
	})

	t.Run("paginates with offset and size", func(t *testing.T) {
		api := newTestAPI(t)
		seed(t, api)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/tokens?offset=1&size=1", nil)
		api.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var response dto.TokenListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, int64(3), response.Total)
		require.Len(t, response.Tokens, 1)
		assert.Equal(t, tokenHexTwo, response.Tokens[0].TokenID)
		require.NotNil(t, response.Offset)
		assert.Equal(t, 1, *response.Offset)
	})

	t.Run("empty store lists nothing", func(t *testing.T) {
		api := newTestAPI(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/tokens", nil)
		api.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var response dto.TokenListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, int64(0), response.Total)
		assert.Empty(t, response.Tokens)
	})

	t.Run("rejects invalid pagination", func(t *testing.T) {
		tests := []struct {
			name  string
			query string
		}{
			{name: "negative offset", query: "offset=-1"},
			{name: "zero size", query: "size=0"},
			{name: "non-numeric size", query: "size=abc"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				api := newTestAPI(t)

				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodGet, "/v1/tokens?"+tt.query, nil)
				api.router.ServeHTTP(w, req)

				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Contains(t, w.Body.String(), "validation_failed")
			})
		}
	})
}

func TestParseListTokensQuery_CapsSize(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/tokens?size=500", nil)

	params, err := rest.ParseListTokensQuery(c)
	require.NoError(t, err)
	assert.Equal(t, rest.MAX_PAGE_SIZE, params.Size)
	assert.Equal(t, 0, params.Offset)
}

func TestHandler_ReplayTrigger(t *testing.T) {
	t.Run("publishes a fresh trigger message", func(t *testing.T) {
		api := newTestAPI(t)

		var published domain.TriggerMessage
		api.publisher.EXPECT().
			PublishTrigger(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, msg domain.TriggerMessage) error {
				published = msg
				return nil
			})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/replay", replayBody(t, "erc721-ledger", transferLog()))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, time.Now().Add(time.Hour)))
		api.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusAccepted, w.Code)

		var response dto.ReplayResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "queued", response.Status)
		assert.NotEmpty(t, response.MessageID)

		// Replays carry a fresh message id, not the original delivery's
		assert.Equal(t, response.MessageID, published.ID)
		assert.Equal(t, "erc721-ledger", published.Trigger)
		assert.Equal(t, testContract, published.Log.ContractAddress)
		assert.True(t, published.Valid())
	})

	t.Run("requires authentication", func(t *testing.T) {
		api := newTestAPI(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/replay", replayBody(t, "erc721-ledger", transferLog()))
		req.Header.Set("Content-Type", "application/json")
		api.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "unauthorized")
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		api := newTestAPI(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/replay", replayBody(t, "erc721-ledger", transferLog()))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, time.Now().Add(-time.Hour)))
		api.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a missing trigger name", func(t *testing.T) {
		api := newTestAPI(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/replay", replayBody(t, "", transferLog()))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, time.Now().Add(time.Hour)))
		api.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "trigger is required")
	})

	t.Run("rejects a malformed log", func(t *testing.T) {
		api := newTestAPI(t)

		log := domain.RawLog{ContractAddress: testContract, Data: "0x"}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/replay", replayBody(t, "erc721-ledger", log))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, time.Now().Add(time.Hour)))
		api.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "not a valid raw log envelope")
	})

	t.Run("publish failure surfaces as internal error", func(t *testing.T) {
		api := newTestAPI(t)

		api.publisher.EXPECT().
			PublishTrigger(gomock.Any(), gomock.Any()).
			Return(assert.AnError)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/replay", replayBody(t, "erc721-ledger", transferLog()))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, time.Now().Add(time.Hour)))
		api.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "internal_error")
	})
}

func TestHandler_HealthCheck(t *testing.T) {
	api := newTestAPI(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"token-ledger-api"}`, w.Body.String())
}

func TestSetupRoutes_Dispatch(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		auth   bool
		expect func(m *mocks.MockAPIHandler)
	}{
		{
			name:   "health check",
			method: http.MethodGet,
			target: "/healthz",
			expect: func(m *mocks.MockAPIHandler) { m.EXPECT().HealthCheck(gomock.Any()) },
		},
		{
			name:   "get token",
			method: http.MethodGet,
			target: "/v1/tokens/1",
			expect: func(m *mocks.MockAPIHandler) { m.EXPECT().GetToken(gomock.Any()) },
		},
		{
			name:   "list tokens",
			method: http.MethodGet,
			target: "/v1/tokens",
			expect: func(m *mocks.MockAPIHandler) { m.EXPECT().ListTokens(gomock.Any()) },
		},
		{
			name:   "replay with credentials",
			method: http.MethodPost,
			target: "/v1/replay",
			auth:   true,
			expect: func(m *mocks.MockAPIHandler) { m.EXPECT().ReplayTrigger(gomock.Any()) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			handler := mocks.NewMockAPIHandler(ctrl)
			tt.expect(handler)

			router := gin.New()
			rest.SetupRoutes(router, handler, middleware.AuthConfig{JWTSecret: testSecret})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.auth {
				req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, time.Now().Add(time.Hour)))
			}
			router.ServeHTTP(w, req)
		})
	}

	t.Run("replay without credentials never reaches the handler", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		handler := mocks.NewMockAPIHandler(ctrl)

		router := gin.New()
		rest.SetupRoutes(router, handler, middleware.AuthConfig{JWTSecret: testSecret})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/replay", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
