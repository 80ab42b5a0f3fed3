package handlers

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"quiz-duel-server/protocol"
	"quiz-duel-server/services"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBuffer     = 64
)

// Gateway terminates websocket connections and translates frames into
// engine calls. It holds no game state of its own.
type Gateway struct {
	Queue    *services.MatchmakingQueue
	Registry *services.SessionRegistry
	Players  *services.PlayerService
}

func NewGateway(queue *services.MatchmakingQueue, registry *services.SessionRegistry, players *services.PlayerService) *Gateway {
	return &Gateway{Queue: queue, Registry: registry, Players: players}
}

// UpgradeRequired gates the websocket route so plain HTTP requests get
// a clean 426 instead of a hijack error.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler returns the websocket endpoint.
func (g *Gateway) Handler() fiber.Handler {
	return websocket.New(g.serve)
}

// wsClient is one live socket. Outbound events go through a buffered
// channel drained by a single writer goroutine, so engine loops calling
// SendEvent never block on the network.
type wsClient struct {
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	playerID string
	matchID  string
}

func (c *wsClient) SendEvent(eventType string, payload any) error {
	frame, err := protocol.Encode(eventType, payload)
	if err != nil {
		return err
	}
	select {
	case c.send <- frame:
		return nil
	case <-c.done:
		return services.ErrSessionClosed
	default:
		// Client can't keep up; drop it rather than stall the engine.
		log.Printf("[WS] outbound buffer full for %s, closing", c.ident())
		c.Close()
		return services.ErrSessionClosed
	}
}

func (c *wsClient) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

func (c *wsClient) ident() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playerID != "" {
		return c.playerID
	}
	return c.conn.RemoteAddr().String()
}

func (c *wsClient) setPlayer(playerID string) {
	c.mu.Lock()
	c.playerID = playerID
	c.mu.Unlock()
}

func (c *wsClient) setMatch(matchID string) {
	c.mu.Lock()
	c.matchID = matchID
	c.mu.Unlock()
}

func (c *wsClient) identity() (playerID, matchID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID, c.matchID
}

func (c *wsClient) sendError(code, message string) {
	_ = c.SendEvent(protocol.EvtError, protocol.Error{Code: code, Message: message})
}

func (c *wsClient) sendEngineError(err error) {
	c.sendError(services.ErrorCode(err), err.Error())
}

func (g *Gateway) serve(conn *websocket.Conn) {
	client := &wsClient{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}

	go client.writeLoop()
	g.readLoop(client)

	client.Close()
	g.cleanup(client)
	_ = conn.Close()
}

func (c *wsClient) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}

func (g *Gateway) readLoop(client *wsClient) {
	conn := client.conn
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-client.done:
			return
		default:
		}

		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] read error for %s: %v", client.ident(), err)
			}
			return
		}

		env, err := protocol.DecodeEnvelope(raw)
		if err != nil {
			client.sendError("bad_frame", err.Error())
			continue
		}
		g.dispatch(client, env)
	}
}

func (g *Gateway) dispatch(client *wsClient, env protocol.Envelope) {
	switch env.T {
	case protocol.MsgFindMatch:
		g.handleFindMatch(client, env)
	case protocol.MsgCancelMatchmaking:
		g.handleCancel(client)
	case protocol.MsgJoinGame:
		g.handleJoinGame(client, env)
	case protocol.MsgSetReady:
		g.handleSetReady(client)
	case protocol.MsgSubmitAnswer:
		g.handleSubmitAnswer(client, env)
	case protocol.MsgLeaveGame:
		g.handleLeaveGame(client)
	case protocol.MsgReconnect:
		g.handleReconnect(client, env)
	case protocol.MsgPing:
		g.handlePing(client, env)
	default:
		client.sendError("unknown_message", "unrecognized message type: "+env.T)
	}
}

func (g *Gateway) handleFindMatch(client *wsClient, env protocol.Envelope) {
	payload, err := protocol.DecodePayload[protocol.FindMatch](env)
	if err != nil {
		client.sendError("bad_payload", err.Error())
		return
	}

	lang := services.NormalizeLanguage(payload.Language)
	player, err := g.Players.GetOrCreate(payload.Player.ID, payload.Player.DisplayName, payload.Player.Grade, lang)
	if err != nil {
		log.Printf("[WS] find_match player load failed: %v", err)
		client.sendError("internal", "could not load player profile")
		return
	}
	client.setPlayer(player.ID)

	if err := g.Queue.Join(g.Players.Ref(player), lang, client); err != nil {
		client.sendEngineError(err)
	}
}

func (g *Gateway) handleCancel(client *wsClient) {
	playerID, _ := client.identity()
	if playerID == "" {
		return
	}
	g.Queue.Leave(playerID)
}

func (g *Gateway) handleJoinGame(client *wsClient, env protocol.Envelope) {
	payload, err := protocol.DecodePayload[protocol.JoinGame](env)
	if err != nil {
		client.sendError("bad_payload", err.Error())
		return
	}
	if payload.Player.ID != "" {
		client.setPlayer(payload.Player.ID)
	}

	playerID, _ := client.identity()
	session, ok := g.Registry.Get(payload.MatchID)
	if !ok {
		client.sendEngineError(services.ErrMatchNotFound)
		return
	}
	if err := session.Join(playerID, client); err != nil {
		client.sendEngineError(err)
		return
	}
	client.setMatch(payload.MatchID)
}

func (g *Gateway) handleSetReady(client *wsClient) {
	playerID, matchID := client.identity()
	session, ok := g.Registry.Get(matchID)
	if !ok {
		client.sendEngineError(services.ErrMatchNotFound)
		return
	}
	session.SetReady(playerID)
}

func (g *Gateway) handleSubmitAnswer(client *wsClient, env protocol.Envelope) {
	payload, err := protocol.DecodePayload[protocol.SubmitAnswer](env)
	if err != nil {
		client.sendError("bad_payload", err.Error())
		return
	}
	playerID, matchID := client.identity()
	if payload.MatchID != "" {
		matchID = payload.MatchID
	}
	session, ok := g.Registry.Get(matchID)
	if !ok {
		client.sendEngineError(services.ErrMatchNotFound)
		return
	}
	if err := session.SubmitAnswer(playerID, payload.QuestionIndex, payload.AnswerIndex, payload.ElapsedMs); err != nil {
		client.sendEngineError(err)
	}
}

func (g *Gateway) handleLeaveGame(client *wsClient) {
	playerID, matchID := client.identity()
	if session, ok := g.Registry.Get(matchID); ok {
		session.Leave(playerID)
	}
	client.setMatch("")
}

func (g *Gateway) handleReconnect(client *wsClient, env protocol.Envelope) {
	payload, err := protocol.DecodePayload[protocol.Reconnect](env)
	if err != nil {
		client.sendError("bad_payload", err.Error())
		return
	}
	client.setPlayer(payload.PlayerID)

	session, ok := g.Registry.Get(payload.MatchID)
	if !ok {
		client.sendEngineError(services.ErrMatchNotFound)
		return
	}
	if err := session.Reconnect(payload.PlayerID, client); err != nil {
		client.sendEngineError(err)
		return
	}
	client.setMatch(payload.MatchID)
}

func (g *Gateway) handlePing(client *wsClient, env protocol.Envelope) {
	payload, _ := protocol.DecodePayload[protocol.Ping](env)
	_ = client.SendEvent(protocol.EvtPong, protocol.Pong{Timestamp: payload.Timestamp})
}

// cleanup runs when the socket drops for any reason. Queued players
// leave the queue; in-match players start their reconnect window.
func (g *Gateway) cleanup(client *wsClient) {
	playerID, matchID := client.identity()
	if playerID == "" {
		return
	}
	g.Queue.Leave(playerID)
	if session, ok := g.Registry.Get(matchID); ok {
		session.Disconnect(playerID)
	} else if session, ok := g.Registry.ForPlayer(playerID); ok {
		session.Disconnect(playerID)
	}
}
