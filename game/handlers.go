package game

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/crypto"
	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/sim"
)

const (
	errMissingToken  = "missing-token"
	errInvalidToken  = "invalid-token"
	errInvalidConfig = "invalid-configs"
	errRoomNotFound  = "room-not-found"
	errRoomFull      = "room-full"
	errUnknown       = "unknown-error"
)

// GameHandler exposes the HTTP surface: connect, create, join, list. Create
// and join upgrade to websocket and leave the connection in the hands of the
// player pumps.
type GameHandler struct {
	lobby        *Lobby
	tokenManager *crypto.JWTManager
	tokenAge     time.Duration
	reporter     Reporter
	sessionOpts  []SessionOption
	upgrader     websocket.Upgrader
}

func NewGameHandler(lobby *Lobby, tokenManager *crypto.JWTManager, tokenAge time.Duration, reporter Reporter) *GameHandler {
	return &GameHandler{
		lobby:        lobby,
		tokenManager: tokenManager,
		tokenAge:     tokenAge,
		reporter:     reporter,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// origin is enforced by the server-wide allowlist middleware
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ConnectHandler trades a display name for a player id and session token.
// There is no password; identity lives exactly as long as the token.
func (h *GameHandler) ConnectHandler(ctx *gin.Context) {
	var body struct {
		Name string `json:"name" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errInvalidConfig})
		return
	}

	id := uuid.NewString()
	token, err := h.tokenManager.Generate(id, body.Name, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("token generation failed")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errUnknown})
		return
	}

	ctx.SetCookie("token", token, int(h.tokenAge.Seconds()), "/", "", true, true)
	ctx.JSON(http.StatusOK, gin.H{"playerId": id, "token": token})
}

// RequireAuthMiddleware verifies the session token from the cookie or, for
// websocket clients that cannot set cookies, the token query parameter.
func (h *GameHandler) RequireAuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie("token")
		if err != nil || token == "" {
			token = ctx.Query("token")
		}
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMissingToken})
			return
		}
		id, name, err := h.tokenManager.Verify(token)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidToken})
			return
		}
		ctx.Set("id", id)
		ctx.Set("name", name)
		ctx.Next()
	}
}

// roomConfigFromQuery builds a hosted-room config. Every human slot is a
// remote guest (the server holds no paddle); AI paddles fill from the top
// slots down.
func roomConfigFromQuery(ctx *gin.Context) (sim.MatchConfig, error) {
	mode := intQuery(ctx, "mode", 2)
	aiCount := intQuery(ctx, "ai", 0)
	winScore := intQuery(ctx, "win", 5)
	obstacles := intQuery(ctx, "obstacles", 0)
	difficulty := intQuery(ctx, "difficulty", 5)

	cfg := sim.MatchConfig{
		PlayerCount:   mode,
		WinScore:      winScore,
		AIDifficulty:  difficulty,
		ObstacleCount: obstacles,
	}
	if aiCount < 0 || aiCount >= mode {
		return cfg, sim.ErrInvalidConfig
	}
	for i := 0; i < mode; i++ {
		if i < mode-aiCount {
			cfg.ControlModes[i] = sim.ControlRemoteGuest
		} else {
			cfg.ControlModes[i] = sim.ControlAI
			cfg.DisplayNames[i] = "cpu"
		}
	}
	return cfg, cfg.Validate()
}

func intQuery(ctx *gin.Context, key string, fallback int) int {
	raw := ctx.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// CreateGameHandler registers a room and joins the creator into it over the
// upgraded websocket.
func (h *GameHandler) CreateGameHandler(ctx *gin.Context) {
	id := ctx.GetString("id")
	name := ctx.GetString("name")
	if id == "" {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errUnknown})
		return
	}

	cfg, err := roomConfigFromQuery(ctx)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errInvalidConfig})
		return
	}
	private := ctx.Query("private") == "true"
	roomName := ctx.Query("name")
	if roomName == "" {
		roomName = name + "'s game"
	}

	opts := append([]SessionOption{WithReporter(h.reporter)}, h.sessionOpts...)
	room, err := NewRoom(roomName, private, cfg, opts...)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errInvalidConfig})
		return
	}

	roomID, err := h.lobby.AddAndRunRoom(ctx.Request.Context(), room)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errUnknown})
		return
	}

	h.joinUpgraded(ctx, roomID, id, name)
}

// JoinGameHandler upgrades and joins an existing room.
func (h *GameHandler) JoinGameHandler(ctx *gin.Context) {
	id := ctx.GetString("id")
	name := ctx.GetString("name")
	if id == "" {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errUnknown})
		return
	}
	h.joinUpgraded(ctx, ctx.Param("roomid"), id, name)
}

func (h *GameHandler) joinUpgraded(ctx *gin.Context, roomID, playerID, name string) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("ip", ctx.ClientIP()).Msg("websocket upgrade failed")
		return
	}

	player := NewPlayer(playerID, name, NewWebsocketConn(conn))
	req := joinRequest{roomID: roomID, player: player, errChan: make(chan error, 1)}
	h.lobby.ForwardJoinRequest(ctx.Request.Context(), req)

	select {
	case err := <-req.errChan:
		if err != nil {
			switch err {
			case ErrRoomNotFound:
				player.conn.Close(errRoomNotFound)
			case ErrRoomFull:
				player.conn.Close(errRoomFull)
			default:
				player.conn.Close(errUnknown)
			}
			return
		}
	case <-time.After(5 * time.Second):
		player.conn.Close(errUnknown)
		return
	}

	go player.ReadPump()
	go player.WritePump()
}

// GetPublicGamesHandler lists joinable public rooms.
func (h *GameHandler) GetPublicGamesHandler(ctx *gin.Context) {
	games := h.lobby.GetPublicGames(ctx.Request.Context())
	ctx.JSON(http.StatusOK, gin.H{"games": games})
}
