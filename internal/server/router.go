package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/sherdwhite/book-trader/services/marketplace/handler"
)

// Services bundles the business services the router depends on.
type Services struct {
	Catalog handler.CatalogServiceInterface
	Auction handler.AuctionServiceInterface
	Trade   handler.TradeServiceInterface
	Auth    handler.AuthServiceInterface
}

// SetupRouter configures all Gin routes for the application. The session
// store backs the multi-step identity flows.
func SetupRouter(svc Services, sessionSecret string) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("booktrader_session", store))

	catalogHandler := handler.NewCatalogHandler(svc.Catalog)
	auctionHandler := handler.NewAuctionHandler(svc.Auction)
	tradeHandler := handler.NewTradeHandler(svc.Trade)
	authHandler := handler.NewAuthHandler(svc.Auth)

	books := router.Group("/books")
	{
		books.GET("", catalogHandler.ListBooksHandler)
		books.POST("", catalogHandler.CreateBookHandler)
		books.GET("/:id", catalogHandler.GetBookHandler)
		books.PUT("/:id", catalogHandler.UpdateBookHandler)
		books.PATCH("/:id", catalogHandler.UpdateBookHandler)
		books.DELETE("/:id", catalogHandler.DeleteBookHandler)
	}

	authors := router.Group("/authors")
	{
		authors.GET("", catalogHandler.ListAuthorsHandler)
		authors.POST("", catalogHandler.CreateAuthorHandler)
		authors.GET("/:id", catalogHandler.GetAuthorHandler)
		authors.PUT("/:id", catalogHandler.UpdateAuthorHandler)
		authors.PATCH("/:id", catalogHandler.UpdateAuthorHandler)
		authors.DELETE("/:id", catalogHandler.DeleteAuthorHandler)
	}

	publishers := router.Group("/publishers")
	{
		publishers.GET("", catalogHandler.ListPublishersHandler)
		publishers.POST("", catalogHandler.CreatePublisherHandler)
		publishers.GET("/:id", catalogHandler.GetPublisherHandler)
		publishers.PUT("/:id", catalogHandler.UpdatePublisherHandler)
		publishers.PATCH("/:id", catalogHandler.UpdatePublisherHandler)
		publishers.DELETE("/:id", catalogHandler.DeletePublisherHandler)
	}

	ratings := router.Group("/ratings")
	{
		ratings.GET("", catalogHandler.ListRatingsHandler)
		ratings.POST("", catalogHandler.RateBookHandler)
		ratings.GET("/:id", catalogHandler.GetRatingHandler)
		ratings.DELETE("/:id", catalogHandler.DeleteRatingHandler)
	}

	copies := router.Group("/copies")
	{
		copies.POST("", catalogHandler.AddCopyHandler)
		copies.PATCH("/:id", catalogHandler.UpdateCopyHandler)
		copies.DELETE("/:id", catalogHandler.RemoveCopyHandler)
	}

	auctions := router.Group("/auctions")
	{
		auctions.GET("", auctionHandler.ListAuctionsHandler)
		auctions.POST("", auctionHandler.CreateAuctionHandler)
		auctions.GET("/:id", auctionHandler.GetAuctionHandler)
		auctions.POST("/:id/status", auctionHandler.ChangeAuctionStatusHandler)
		auctions.GET("/:id/bids", auctionHandler.ListBidsHandler)
		auctions.POST("/:id/bids", auctionHandler.PlaceBidHandler)
		auctions.POST("/:id/watch", auctionHandler.WatchAuctionHandler)
		auctions.DELETE("/:id/watch", auctionHandler.UnwatchAuctionHandler)
	}

	trades := router.Group("/trades")
	{
		trades.POST("", tradeHandler.ProposeTradeHandler)
		trades.GET("/:id", tradeHandler.GetTradeHandler)
		trades.POST("/:id/counter", tradeHandler.CounterOfferHandler)
		trades.POST("/:id/accept", tradeHandler.AcceptTradeHandler)
		trades.POST("/:id/start", tradeHandler.StartTradeHandler)
		trades.POST("/:id/complete", tradeHandler.CompleteTradeHandler)
		trades.POST("/:id/cancel", tradeHandler.CancelTradeHandler)
		trades.POST("/:id/dispute", tradeHandler.DisputeTradeHandler)
		trades.GET("/:id/items", tradeHandler.ListTradeItemsHandler)
		trades.POST("/:id/items", tradeHandler.AddTradeItemHandler)
		trades.GET("/:id/messages", tradeHandler.ListTradeMessagesHandler)
		trades.POST("/:id/messages", tradeHandler.AddTradeMessageHandler)
		trades.GET("/:id/offers", tradeHandler.ListTradeOffersHandler)
	}

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.RegisterHandler)
		authRoutes.POST("/register/verify", authHandler.VerifyRegistrationHandler)
		authRoutes.POST("/register/resend", authHandler.ResendCodeHandler)
		authRoutes.POST("/login", authHandler.LoginHandler)
		authRoutes.POST("/login/verify", authHandler.VerifyLoginHandler)
		authRoutes.POST("/logout", authHandler.LogoutHandler)
	}

	users := router.Group("/users")
	{
		users.GET("", authHandler.ListUsersHandler)
		users.POST("", authHandler.CreateUserHandler)
		users.GET("/:id", authHandler.GetUserHandler)
		users.PUT("/:id", authHandler.UpdateUserHandler)
		users.PATCH("/:id", authHandler.UpdateUserHandler)
		users.DELETE("/:id", authHandler.DeleteUserHandler)
		users.GET("/:id/profile", authHandler.GetProfileHandler)
		users.GET("/:id/reputation", authHandler.ListReputationHandler)
		users.GET("/:id/trades", tradeHandler.ListUserTradesHandler)
		users.GET("/:id/copies", catalogHandler.ListUserCopiesHandler)
		users.GET("/:id/watchlist", auctionHandler.ListWatchedHandler)
	}

	return router
}
