package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/sherdwhite/book-trader/internal/models"
	"github.com/sherdwhite/book-trader/internal/traderrors"
	"github.com/sherdwhite/book-trader/services/marketplace/helpers"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func performRequest(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return resp, w
}

// Tests PlaceBidHandler
func TestAuctionHandler_PlaceBid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	h := NewAuctionHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auctions/:id/bids", h.PlaceBidHandler)

	now := time.Now().UTC()

	tests := []struct {
		name           string
		url            string
		requestBody    any
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name: "success_valid_bid",
			url:  "/auctions/1/bids",
			requestBody: helpers.PlaceBidRequest{
				BidderID: 2,
				Amount:   dec("15.50"),
			},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid(uint(1), uint(2), gomock.Any(), false, gomock.Nil()).
					Return(models.Bid{
						ID:        7,
						AuctionID: 1,
						BidderID:  2,
						Amount:    dec("15.50"),
						Timestamp: now,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "bid placed successfully",
			validateData: func(t *testing.T, data map[string]any) {
				require.Equal(t, float64(1), data["auction_id"])
				require.Equal(t, float64(2), data["bidder_id"])
				require.Equal(t, "15.5", data["amount"])
			},
		},
		{
			name:           "invalid_json",
			url:            "/auctions/1/bids",
			requestBody:    `{invalid json}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "missing_bidder",
			url:            "/auctions/1/bids",
			requestBody:    helpers.PlaceBidRequest{Amount: dec("15.50")},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "malformed_auction_id",
			url:            "/auctions/zero/bids",
			requestBody:    helpers.PlaceBidRequest{BidderID: 2, Amount: dec("15.50")},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid identifier",
		},
		{
			name: "bid_too_low",
			url:  "/auctions/1/bids",
			requestBody: helpers.PlaceBidRequest{
				BidderID: 2,
				Amount:   dec("5.00"),
			},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid(uint(1), uint(2), gomock.Any(), false, gomock.Nil()).
					Return(models.Bid{}, traderrors.ErrBidTooLow)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "bid amount too low",
		},
		{
			name: "auction_not_active",
			url:  "/auctions/1/bids",
			requestBody: helpers.PlaceBidRequest{
				BidderID: 2,
				Amount:   dec("15.00"),
			},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid(uint(1), uint(2), gomock.Any(), false, gomock.Nil()).
					Return(models.Bid{}, traderrors.ErrStateConflict)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "operation conflicts with current state",
		},
		{
			name: "auction_not_found",
			url:  "/auctions/42/bids",
			requestBody: helpers.PlaceBidRequest{
				BidderID: 2,
				Amount:   dec("15.00"),
			},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid(uint(42), uint(2), gomock.Any(), false, gomock.Nil()).
					Return(models.Bid{}, traderrors.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "record not found",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			resp, w := performRequest(t, router, http.MethodPost, tc.url, tc.requestBody)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Equal(t, tc.expectedMsg, resp["message"])

			if tc.validateData != nil {
				data, ok := resp["data"].(map[string]any)
				require.True(t, ok, "response should carry a data object")
				tc.validateData(t, data)
			}
		})
	}
}

// Tests GetAuctionHandler derived fields
func TestAuctionHandler_GetAuction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	h := NewAuctionHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/auctions/:id", h.GetAuctionHandler)

	now := time.Now().UTC()
	h.now = func() time.Time { return now }

	auction := models.Auction{
		ID:            1,
		Title:         "First edition",
		BookID:        10,
		SellerID:      20,
		Condition:     models.ConditionGood,
		StartingPrice: dec("10.00"),
		StartTime:     now.Add(-time.Hour),
		EndTime:       now.Add(time.Hour),
		Status:        models.AuctionActive,
	}

	mockService.EXPECT().GetAuction(uint(1)).Return(auction, nil)
	mockService.EXPECT().CurrentPrice(uint(1)).Return(dec("22.00"), nil)

	resp, w := performRequest(t, router, http.MethodGet, "/auctions/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data, ok := resp["data"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "22", data["current_price"])
	require.Equal(t, true, data["is_active"])
	require.NotEmpty(t, data["time_remaining"])
}

// Tests ChangeAuctionStatusHandler
func TestAuctionHandler_ChangeStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	h := NewAuctionHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auctions/:id/status", h.ChangeAuctionStatusHandler)

	t.Run("invalid_transition", func(t *testing.T) {
		mockService.EXPECT().
			ChangeStatus(uint(1), "sold").
			Return(models.Auction{}, traderrors.ErrStateConflict)

		resp, w := performRequest(t, router, http.MethodPost, "/auctions/1/status",
			helpers.ChangeAuctionStatusRequest{Status: "sold"})

		require.Equal(t, http.StatusConflict, w.Code)
		require.Equal(t, "operation conflicts with current state", resp["message"])
	})

	t.Run("missing_status", func(t *testing.T) {
		resp, w := performRequest(t, router, http.MethodPost, "/auctions/1/status",
			map[string]any{})

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "invalid request payload", resp["message"])
	})
}
