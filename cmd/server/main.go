package main

import (
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/config"
	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/crypto"
	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/game"
	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/logger"
	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/report"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		// non-browser clients send no Origin header
		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Authorization",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logger.Setup(true)
		log.Fatal().Err(err).Msg("bad environment")
	}
	logger.Setup(cfg.Debug)
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	tokenManager := crypto.NewJWTManager(cfg.JWTKey, cfg.TokenAge)

	var reporter game.Reporter = game.NopReporter{}
	if cfg.ReportURL != "" {
		reporter = report.NewClient(cfg.ReportURL)
	}

	lobby := game.NewLobby(game.NewUUIDGenerator(), game.NewRealTickers())
	lobbyStarted := make(chan struct{})
	go lobby.LobbyActor(lobbyStarted)
	<-lobbyStarted

	gameHandler := game.NewGameHandler(lobby, tokenManager, cfg.TokenAge, reporter)

	r := CreateServer(cfg.AllowedOrigins)
	r.POST("/connect", gameHandler.ConnectHandler)
	{
		gameGroup := r.Group("/game")
		gameGroup.Use(gameHandler.RequireAuthMiddleware())

		gameGroup.GET("/create", gameHandler.CreateGameHandler)
		gameGroup.GET("/join/:roomid", gameHandler.JoinGameHandler)
		gameGroup.GET("/games", gameHandler.GetPublicGamesHandler)
	}

	log.Info().Str("addr", cfg.Addr).Msg("serving")
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
