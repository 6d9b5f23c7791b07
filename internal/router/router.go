// internal/router/router.go
package router

import (
	"errors"
	"time"

	"github.com/jason-s-yu/quizparty/internal/broadcast"
	"github.com/jason-s-yu/quizparty/internal/game"
	"github.com/jason-s-yu/quizparty/internal/models"
	"github.com/jason-s-yu/quizparty/internal/party"
	"github.com/jason-s-yu/quizparty/internal/practice"
	"github.com/jason-s-yu/quizparty/internal/protocol"
	"github.com/jason-s-yu/quizparty/internal/schedule"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Error reasons carried in error frames.
const (
	ReasonNotFound     = "not_found"
	ReasonInvalidState = "invalid_state"
	ReasonCapacity     = "capacity"
	ReasonNameConflict = "name_conflict"
	ReasonValidation   = "validation"
	ReasonBadRequest   = "bad_request"
	ReasonRateLimited  = "rate_limited"
	ReasonInternal     = "internal"
)

// Options configure per-connection limits and the disconnect grace window.
type Options struct {
	RateLimit       float64 // frames per second
	RateBurst       int
	DisconnectGrace time.Duration
}

// binding is what the router knows about one connection.
type binding struct {
	ch       models.Channel
	limiter  *rate.Limiter
	party    *models.Party
	playerID string
}

// Router maps connections to players and dispatches their frames. All methods
// must run on the scheduler's sequence.
type Router struct {
	sched    schedule.Scheduler
	parties  *party.Registry
	engine   *game.Engine
	practice *practice.Manager
	gw       *broadcast.Gateway
	opts     Options
	conns    map[string]*binding
}

func New(sched schedule.Scheduler, parties *party.Registry, engine *game.Engine, pm *practice.Manager, gw *broadcast.Gateway, opts Options) *Router {
	return &Router{
		sched:    sched,
		parties:  parties,
		engine:   engine,
		practice: pm,
		gw:       gw,
		opts:     opts,
		conns:    make(map[string]*binding),
	}
}

// Connect registers a new connection.
func (r *Router) Connect(ch models.Channel) {
	r.conns[ch.ID()] = &binding{
		ch:      ch,
		limiter: rate.NewLimiter(rate.Limit(r.opts.RateLimit), r.opts.RateBurst),
	}
	log.WithField("conn", ch.ID()).Debug("connection registered")
}

// Connections is the number of registered connections.
func (r *Router) Connections() int {
	return len(r.conns)
}

// Handle decodes one inbound frame from ch and dispatches it.
func (r *Router) Handle(ch models.Channel, data []byte) {
	b, ok := r.conns[ch.ID()]
	if !ok {
		r.Connect(ch)
		b = r.conns[ch.ID()]
	}
	if r.opts.RateLimit > 0 && !b.limiter.AllowN(r.sched.Now(), 1) {
		r.reply(ch, protocol.Error(ReasonRateLimited, "slow down"))
		return
	}

	in, err := protocol.Decode(data)
	if err != nil {
		r.reply(ch, protocol.Error(ReasonBadRequest, "invalid message"))
		return
	}
	if err := r.dispatch(b, in); err != nil {
		reason := Reason(err)
		log.WithFields(log.Fields{"conn": ch.ID(), "type": in.Type, "reason": reason}).Debugf("request rejected: %v", err)
		r.reply(ch, protocol.Error(reason, err.Error()))
	}
}

func (r *Router) dispatch(b *binding, in protocol.Inbound) error {
	switch in.Type {
	case protocol.TypePing:
		var msg protocol.Ping
		// a bare ping is fine
		_ = in.Bind(&msg)
		r.reply(b.ch, protocol.Envelope{Type: protocol.TypePong, Payload: protocol.Pong{Timestamp: msg.Timestamp}})
		return nil

	case protocol.TypeCreateParty:
		var msg protocol.CreateParty
		if err := in.Bind(&msg); err != nil {
			return err
		}
		p, err := r.parties.Create(msg.HostID, msg.DisplayName, msg.Capacity, msg.Settings, b.ch)
		if err != nil {
			return err
		}
		p.Player(msg.HostID).SetProfile(msg.Avatar, msg.Device)
		r.bind(b, p, msg.HostID)
		r.reply(b.ch, protocol.Envelope{Type: protocol.TypePartyCreated, Payload: p.View()})
		return nil

	case protocol.TypeJoinParty:
		var msg protocol.JoinParty
		if err := in.Bind(&msg); err != nil {
			return err
		}
		p, err := r.parties.Join(msg.Code, msg.PlayerID, msg.DisplayName, b.ch)
		if err != nil {
			return err
		}
		p.Player(msg.PlayerID).SetProfile(msg.Avatar, msg.Device)
		r.bind(b, p, msg.PlayerID)
		r.gw.BroadcastParty(p, protocol.Envelope{Type: protocol.TypePartyUpdate, Payload: p.View()})
		return nil

	case protocol.TypeLeaveParty:
		var msg protocol.LeaveParty
		if err := in.Bind(&msg); err != nil {
			return err
		}
		p, deleted, err := r.parties.Leave(msg.Code, msg.PlayerID)
		if err != nil {
			return err
		}
		if b.party == p && b.playerID == msg.PlayerID {
			b.party, b.playerID = nil, ""
		}
		if !deleted {
			r.gw.BroadcastParty(p, protocol.Envelope{Type: protocol.TypePartyUpdate, Payload: p.View()})
		}
		return nil

	case protocol.TypeStartGame:
		var msg protocol.StartGame
		if err := in.Bind(&msg); err != nil {
			return err
		}
		requestedBy := msg.PlayerID
		if requestedBy == "" && b.party != nil && b.party.Code == msg.Code {
			requestedBy = b.playerID
		}
		if requestedBy == "" {
			return errAnonymousStart
		}
		return r.engine.Start(msg.Code, requestedBy, false)

	case protocol.TypeSubmitAnswer:
		var msg protocol.SubmitAnswer
		if err := in.Bind(&msg); err != nil {
			return err
		}
		return r.engine.SubmitAnswer(msg.Code, msg.PlayerID, msg.Text)

	case protocol.TypeSelectOption:
		var msg protocol.SelectOption
		if err := in.Bind(&msg); err != nil {
			return err
		}
		return r.engine.SelectOption(msg.Code, msg.PlayerID, *msg.OptionIndex)

	case protocol.TypeStartPractice:
		var msg protocol.StartPractice
		if len(in.Payload) > 0 && string(in.Payload) != "null" {
			if err := in.Bind(&msg); err != nil {
				return err
			}
		}
		r.practice.Start(b.ch, models.Settings{
			Category:   msg.Category,
			Difficulty: msg.Difficulty,
			Language:   msg.Language,
		}.WithDefaults())
		return nil

	case protocol.TypePracticeAnswer:
		var msg protocol.PracticeAnswer
		if err := in.Bind(&msg); err != nil {
			return err
		}
		text := msg.Text
		if text == "" {
			text = msg.Option
		}
		if !r.practice.Answer(b.ch, text) {
			return errNoPractice
		}
		return nil
	}
	return errUnknownType(in.Type)
}

// bind points the connection at (p, playerID). A previous binding to another
// player is released as if the connection had dropped.
func (r *Router) bind(b *binding, p *models.Party, playerID string) {
	if b.party != nil && (b.party != p || b.playerID != playerID) {
		r.release(b)
	}
	b.party, b.playerID = p, playerID
}

// Disconnect forgets ch. Its player stays in the party for DisconnectGrace and
// is removed through the normal leave path unless a new channel was attached
// under the same id by then.
func (r *Router) Disconnect(ch models.Channel) {
	b, ok := r.conns[ch.ID()]
	if !ok {
		return
	}
	delete(r.conns, ch.ID())
	r.practice.Stop(ch)
	r.release(b)
	log.WithField("conn", ch.ID()).Debug("connection removed")
}

func (r *Router) release(b *binding) {
	p, playerID := b.party, b.playerID
	b.party, b.playerID = nil, ""
	if p == nil || !r.parties.Live(p) {
		return
	}
	gen, ok := r.parties.Detach(p.Code, playerID, b.ch)
	if !ok {
		return
	}
	log.WithFields(log.Fields{"party": p.Code, "player": playerID}).Info("player disconnected")
	r.gw.BroadcastParty(p, protocol.Envelope{Type: protocol.TypePartyUpdate, Payload: p.View()})

	r.sched.After(r.opts.DisconnectGrace, func() { r.dropIfAbsent(p, playerID, gen) })
}

// dropIfAbsent removes the player if they are still detached from the
// disconnect numbered gen. A later reconnect or disconnect owns the player.
func (r *Router) dropIfAbsent(p *models.Party, playerID string, gen int) {
	if !r.parties.Live(p) {
		return
	}
	pl := p.Player(playerID)
	if pl == nil || pl.Channel != nil || pl.Detaches != gen {
		return
	}
	_, deleted, err := r.parties.Leave(p.Code, playerID)
	if err != nil {
		log.WithFields(log.Fields{"party": p.Code, "player": playerID}).Warnf("grace removal failed: %v", err)
		return
	}
	log.WithFields(log.Fields{"party": p.Code, "player": playerID}).Info("player removed after grace period")
	if !deleted {
		r.gw.BroadcastParty(p, protocol.Envelope{Type: protocol.TypePartyUpdate, Payload: p.View()})
	}
}

func (r *Router) reply(ch models.Channel, env protocol.Envelope) {
	r.gw.Send(ch, env)
}

// Reason maps an operation error onto the reason sent to the client.
func Reason(err error) string {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return ReasonNotFound
	case errors.Is(err, models.ErrInvalidState):
		return ReasonInvalidState
	case errors.Is(err, models.ErrCapacity):
		return ReasonCapacity
	case errors.Is(err, models.ErrNameConflict):
		return ReasonNameConflict
	case errors.Is(err, models.ErrValidation):
		return ReasonValidation
	case errors.Is(err, protocol.ErrMalformed):
		return ReasonBadRequest
	default:
		return ReasonInternal
	}
}
