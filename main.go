package main

import (
	"fmt"
	"os"

	"github.com/sherdwhite/book-trader/config"
	auction "github.com/sherdwhite/book-trader/internal/auctionService"
	auth "github.com/sherdwhite/book-trader/internal/authService"
	catalog "github.com/sherdwhite/book-trader/internal/catalogService"
	"github.com/sherdwhite/book-trader/internal/mail"
	"github.com/sherdwhite/book-trader/internal/repository"
	"github.com/sherdwhite/book-trader/internal/server"
	trade "github.com/sherdwhite/book-trader/internal/tradeService"
)

func main() {
	cfg := config.Load()

	db, err := config.InitDB(cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}

	catalogStore := repository.NewCatalogStore(db)
	auctionStore := repository.NewAuctionStore(db)
	tradeStore := repository.NewTradeStore(db)
	identityStore := repository.NewIdentityStore(db)

	mailer := mail.NewSMTPMailer(cfg.Mail)

	svc := server.Services{
		Catalog: catalog.NewCatalogService(catalogStore),
		Auction: auction.NewAuctionService(auctionStore),
		Trade:   trade.NewTradeService(tradeStore, identityStore),
		Auth:    auth.NewAuthService(identityStore, mailer),
	}

	router := server.SetupRouter(svc, cfg.SessionSecret)

	addr := fmt.Sprintf(":%s", cfg.Port)
	fmt.Printf("Starting marketplace server on %s...\n", addr)
	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}
