package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/dancloud/chat/internal/config"
	"github.com/dancloud/chat/internal/entity"
	"github.com/dancloud/chat/pkg/jwt"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mbeoliero/kit/log"
	"github.com/redis/go-redis/v9"
)

// WsServer is the push gateway. It accepts authenticated WebSocket
// connections and fans out new-message events to both participants of a
// conversation.
type WsServer struct {
	upgrader       *websocket.Upgrader
	cfg            *config.Config
	userMap        *UserMap
	registerChan   chan *Client
	unregisterChan chan *Client
	pushChan       chan *pushTask
	httpServer     *http.Server
	onlineUserNum  atomic.Int64
	onlineConnNum  atomic.Int64
	maxConnNum     int64
}

// pushTask carries one message and its owning conversation; the payload
// is shaped per recipient at delivery time.
type pushTask struct {
	msg  *entity.Message
	conv *entity.Conversation
}

// NewWsServer creates a new WebSocket server
func NewWsServer(cfg *config.Config, rdb *redis.Client) *WsServer {
	upgrader := &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	return &WsServer{
		upgrader:       upgrader,
		cfg:            cfg,
		userMap:        NewUserMap(rdb),
		registerChan:   make(chan *Client, 1000),
		unregisterChan: make(chan *Client, 1000),
		pushChan:       make(chan *pushTask, cfg.WebSocket.PushChannelSize),
		maxConnNum:     cfg.WebSocket.MaxConnNum,
	}
}

// Run starts the event loop and push workers
func (s *WsServer) Run(ctx context.Context) {
	go s.eventLoop(ctx)

	workerNum := s.cfg.WebSocket.PushWorkerNum
	if workerNum <= 0 {
		workerNum = 10
	}
	for i := 0; i < workerNum; i++ {
		go s.pushLoop(ctx)
	}
	log.Info("started %d push workers", workerNum)
}

// Serve runs the gateway's own HTTP listener for WebSocket upgrades
func (s *WsServer) Serve() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleConnection)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Server.WSPort),
		Handler: mux,
	}

	log.Info("websocket gateway listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP listener gracefully
func (s *WsServer) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// eventLoop handles client registration and unregistration
func (s *WsServer) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-s.registerChan:
			s.registerClient(ctx, client)
		case client := <-s.unregisterChan:
			s.unregisterClient(ctx, client)
		}
	}
}

// pushLoop handles async event delivery
func (s *WsServer) pushLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-s.pushChan:
			s.processPushTask(ctx, task)
		}
	}
}

// processPushTask delivers one message to every connection of both
// participants. The conversation in the payload is rendered from each
// recipient's side so peer_user_id is correct for them.
func (s *WsServer) processPushTask(ctx context.Context, task *pushTask) {
	targets := []string{task.conv.Participant1Id, task.conv.Participant2Id}

	for _, userId := range targets {
		clients, ok := s.userMap.GetAll(userId)
		if !ok {
			continue
		}

		data, err := EncodeEvent(EventNewMessage, &NewMessageData{
			Message:      task.msg.ToMessageInfo(),
			Conversation: task.conv.ToConversationInfo(userId),
		})
		if err != nil {
			log.CtxError(ctx, "encode push event failed: message_id=%d, error=%v", task.msg.Id, err)
			return
		}

		for _, client := range clients {
			if err := client.Push(data); err != nil {
				log.CtxDebug(ctx, "push to client failed: user_id=%s, conn_id=%s, error=%v", userId, client.ConnId, err)
			}
		}
	}
}

// NotifyNewMessage queues a new-message event for both participants.
// Never blocks the caller; the event is dropped if the queue is full.
func (s *WsServer) NotifyNewMessage(msg *entity.Message, conv *entity.Conversation) {
	task := &pushTask{msg: msg, conv: conv}

	select {
	case s.pushChan <- task:
	default:
		log.Warn("push channel full, event dropped: conversation_id=%d, message_id=%d", msg.ConversationId, msg.Id)
	}
}

// registerClient registers a client
func (s *WsServer) registerClient(ctx context.Context, client *Client) {
	_, exists := s.userMap.GetAll(client.UserId)
	if !exists {
		s.onlineUserNum.Add(1)
	}

	s.userMap.Register(ctx, client)
	s.onlineConnNum.Add(1)

	log.CtxInfo(ctx, "client registered: user_id=%s, platform_id=%d, conn_id=%s, online_users=%d, online_conns=%d",
		client.UserId, client.PlatformId, client.ConnId, s.onlineUserNum.Load(), s.onlineConnNum.Load())
}

// unregisterClient unregisters a client
func (s *WsServer) unregisterClient(ctx context.Context, client *Client) {
	userOffline := s.userMap.Unregister(ctx, client)
	s.onlineConnNum.Add(-1)

	if userOffline {
		s.onlineUserNum.Add(-1)
	}

	log.CtxInfo(ctx, "client unregistered: user_id=%s, platform_id=%d, conn_id=%s, user_offline=%v, online_users=%d, online_conns=%d",
		client.UserId, client.PlatformId, client.ConnId, userOffline, s.onlineUserNum.Load(), s.onlineConnNum.Load())
}

// UnregisterClient queues client for unregistration
func (s *WsServer) UnregisterClient(client *Client) {
	select {
	case s.unregisterChan <- client:
	default:
		log.Warn("unregister channel full: user_id=%s", client.UserId)
	}
}

// HandleConnection authenticates and upgrades a WebSocket connection
func (s *WsServer) HandleConnection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.onlineConnNum.Load() >= s.maxConnNum {
		http.Error(w, "connection limit exceeded", http.StatusServiceUnavailable)
		return
	}

	token := r.URL.Query().Get(QueryToken)
	userId := r.URL.Query().Get(QueryUserId)
	platformIdStr := r.URL.Query().Get(QueryPlatformId)

	if token == "" || userId == "" {
		http.Error(w, "missing required parameters", http.StatusBadRequest)
		return
	}

	platformId := 0
	if platformIdStr != "" {
		platformId, _ = strconv.Atoi(platformIdStr)
	}

	claims, err := jwt.ValidateToken(token, s.cfg.JWT.Secret, userId, platformId)
	if err != nil {
		log.CtxDebug(ctx, "token validation failed: user_id=%s, error=%v", userId, err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.CtxWarn(ctx, "websocket upgrade failed: %v", err)
		return
	}

	connId := uuid.New().String()
	client := NewClient(conn, claims.UserId, claims.PlatformId, connId, s)

	select {
	case s.registerChan <- client:
	default:
		// Register queue saturated, admit directly
		s.registerClient(context.Background(), client)
	}

	client.Start()
}

// GetOnlineUserCount returns online user count
func (s *WsServer) GetOnlineUserCount() int64 {
	return s.onlineUserNum.Load()
}

// GetOnlineConnCount returns online connection count
func (s *WsServer) GetOnlineConnCount() int64 {
	return s.onlineConnNum.Load()
}

// KickUser closes every connection a user has on a platform
func (s *WsServer) KickUser(userId string, platformId int) {
	for _, client := range s.userMap.GetByPlatform(userId, platformId) {
		client.Kick()
	}
}

// IsOnline reports whether the user has a live connection anywhere
func (s *WsServer) IsOnline(ctx context.Context, userId string) bool {
	return s.userMap.IsOnline(ctx, userId)
}
