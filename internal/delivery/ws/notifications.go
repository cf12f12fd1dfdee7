// Package ws serves the per-user notification channel over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"

	"go-scout-backend/internal/delivery/http/middleware"
	"go-scout-backend/internal/domain"
	"go-scout-backend/internal/notify"
	"go-scout-backend/pkg/apperror"
	"go-scout-backend/pkg/logger"
	"go-scout-backend/pkg/security"
)

const (
	TypeConnectionEstablished = "connection_established"
	TypePing                  = "ping"
	TypePong                  = "pong"
	TypeError                 = "error"
)

const writeTimeout = 5 * time.Second

// maxFrameSize bounds inbound client frames.
const maxFrameSize = 4 << 10

type frame struct {
	Type      string          `json:"type"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
	Message   string          `json:"message,omitempty"`
	UserID    string          `json:"user_id,omitempty"`
}

type NotificationHandler struct {
	hub            *notify.Hub
	tokens         middleware.TokenVerifier
	authUC         domain.AuthUsecase
	secLog         *security.SecurityLogger
	originPatterns []string
}

// NewNotificationHandler mounts GET /ws/notifications/:user_id/ on r.
// originPatterns are host patterns accepted for cross-origin upgrades.
func NewNotificationHandler(r gin.IRoutes, hub *notify.Hub, tokens middleware.TokenVerifier, authUC domain.AuthUsecase,
	secLog *security.SecurityLogger, originPatterns []string) *NotificationHandler {
	if secLog == nil {
		secLog = security.NopLogger()
	}
	h := &NotificationHandler{hub: hub, tokens: tokens, authUC: authUC, secLog: secLog, originPatterns: originPatterns}
	r.GET("/ws/notifications/:user_id/", h.Serve)
	return h
}

// token reads the credential from the token query parameter, which browsers
// can set on an upgrade, then from the Authorization header or cookie.
func token(c *gin.Context) (string, error) {
	if t := c.Query("token"); t != "" {
		return t, nil
	}
	return middleware.BearerToken(c)
}

// Serve authenticates the caller, upgrades the connection and joins it to the
// caller's notification room until either side closes.
func (h *NotificationHandler) Serve(c *gin.Context) {
	raw, err := token(c)
	if err != nil {
		c.Error(middleware.TokenError(err))
		return
	}
	ctx := c.Request.Context()
	reqID := c.GetString(string(domain.KeyRequestID))
	claims, err := h.tokens.Verify(raw)
	if err != nil {
		appErr := middleware.TokenError(err)
		h.secLog.LogUnauthorized(ctx, c.ClientIP(), reqID, appErr.Code)
		c.Error(appErr)
		return
	}
	userID := c.Param("user_id")
	if claims.UserID != userID {
		h.secLog.LogForbidden(ctx, claims.UserID, c.ClientIP(), reqID, c.FullPath())
		c.Error(apperror.Forbidden("Cannot subscribe to another user's notifications"))
		return
	}

	user, err := h.authUC.GetCurrentUser(ctx, userID)
	if err != nil {
		if apperror.CodeOf(err) == apperror.CodeNotFound {
			h.secLog.LogUnauthorized(ctx, c.ClientIP(), reqID, "unknown_user")
			c.Error(apperror.Unauthorized("User not found"))
			return
		}
		c.Error(err)
		return
	}
	if !user.IsActive {
		h.secLog.LogForbidden(ctx, userID, c.ClientIP(), reqID, c.FullPath())
		c.Error(apperror.Forbidden("Account is disabled"))
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		// Accept has already written the HTTP error.
		logger.Log.Debug("WebSocket upgrade failed", "user_id", userID, "error", err)
		c.Abort()
		return
	}
	conn.SetReadLimit(maxFrameSize)

	h.serveConn(c.Request.Context(), conn, userID)
}

func (h *NotificationHandler) serveConn(ctx context.Context, conn *websocket.Conn, userID string) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sub := h.hub.Subscribe(notify.RoomName(userID))
	defer h.hub.Unsubscribe(sub)

	logger.Log.Info("Notification socket connected", "user_id", userID, "room", sub.Room())
	defer logger.Log.Info("Notification socket closed", "user_id", userID)

	if err := writeJSON(ctx, conn, frame{Type: TypeConnectionEstablished, UserID: userID}); err != nil {
		conn.Close(websocket.StatusInternalError, "write failed")
		return
	}

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case msg, ok := <-sub.C:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "unsubscribed")
				return
			}
			wctx, wcancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Write(wctx, websocket.MessageText, msg)
			wcancel()
			if err != nil {
				logger.Log.Debug("Notification write failed", "user_id", userID, "error", err)
				conn.Close(websocket.StatusInternalError, "write failed")
				return
			}
		}
	}
}

// readLoop answers pings and reports malformed frames until the client
// disconnects. Unknown types are ignored.
func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) && websocket.CloseStatus(err) == -1 {
				logger.Log.Debug("Notification read ended", "error", err)
			}
			return
		}

		var in frame
		if err := json.Unmarshal(data, &in); err != nil {
			if err := writeJSON(ctx, conn, frame{Type: TypeError, Message: "Invalid JSON"}); err != nil {
				return
			}
			continue
		}
		if in.Type != TypePing {
			continue
		}
		if err := writeJSON(ctx, conn, frame{Type: TypePong, Timestamp: in.Timestamp}); err != nil {
			return
		}
	}
}

func writeJSON(ctx context.Context, conn *websocket.Conn, msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}
