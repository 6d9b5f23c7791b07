// internal/party/registry.go
package party

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/quizparty/internal/models"
	"github.com/jason-s-yu/quizparty/internal/schedule"
	"github.com/jason-s-yu/quizparty/internal/validate"
	log "github.com/sirupsen/logrus"
)

const codeAttempts = 32

var errCodeSpace = errors.New("party: could not generate an unused code")

// Options are the registry's lifecycle timings.
type Options struct {
	MaxCapacity    int
	IdleTTL        time.Duration
	AutoStartDelay time.Duration
	RematchIdle    time.Duration
	SweepInterval  time.Duration
}

// Registry is the in-memory table of parties keyed by code. It is confined to
// the scheduler's sequence and does no locking of its own.
type Registry struct {
	sched   schedule.Scheduler
	opts    Options
	parties map[string]*models.Party
	newCode func() (string, error)

	// AutoStart is invoked when a party's auto-start timer fires while the
	// party is still waiting with at least one player.
	AutoStart func(code string)
}

// NewRegistry creates an empty registry.
func NewRegistry(sched schedule.Scheduler, opts Options) *Registry {
	return &Registry{
		sched:   sched,
		opts:    opts,
		parties: make(map[string]*models.Party),
		newCode: GenerateCode,
	}
}

// SetCodeGenerator replaces the code source. Tests use it to force collisions.
func (r *Registry) SetCodeGenerator(fn func() (string, error)) {
	r.newCode = fn
}

// GenerateCode returns six upper-case hex characters drawn from a random UUID.
func GenerateCode() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:6]), nil
}

func (r *Registry) uniqueCode() (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := r.newCode()
		if err != nil {
			return "", err
		}
		if _, taken := r.parties[code]; !taken {
			return code, nil
		}
	}
	return "", errCodeSpace
}

// Create inserts a waiting party with the creator as its only player and host,
// and arms the auto-start fallback.
func (r *Registry) Create(hostID, displayName string, capacity int, settings models.Settings, ch models.Channel) (*models.Party, error) {
	if err := validate.DisplayName(displayName); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	if capacity < 1 || capacity > r.opts.MaxCapacity {
		return nil, fmt.Errorf("%w: capacity must be between 1 and %d", models.ErrValidation, r.opts.MaxCapacity)
	}
	code, err := r.uniqueCode()
	if err != nil {
		return nil, err
	}

	now := r.sched.Now()
	p := &models.Party{
		ID:       uuid.New(),
		Code:     code,
		HostID:   hostID,
		Capacity: capacity,
		Settings: settings.WithDefaults(),
		Players: []*models.Player{{
			ID:          hostID,
			DisplayName: displayName,
			Channel:     ch,
			IsHost:      true,
			JoinedAt:    now,
		}},
		Status:    models.StatusWaiting,
		CreatedAt: now,
		ExpiresAt: now.Add(r.opts.IdleTTL),
	}
	r.parties[code] = p

	id := p.ID
	r.sched.After(r.opts.AutoStartDelay, func() { r.fireAutoStart(code, id) })

	log.WithFields(log.Fields{"party": code, "host": hostID, "capacity": capacity}).Info("party created")
	return p, nil
}

func (r *Registry) fireAutoStart(code string, id uuid.UUID) {
	p, ok := r.parties[code]
	if !ok || p.ID != id || p.Status != models.StatusWaiting || len(p.Players) == 0 {
		return
	}
	log.WithField("party", code).Info("auto-start timer fired")
	if r.AutoStart != nil {
		r.AutoStart(code)
	}
}

// Join admits a player, or reattaches the channel of a player already in the party.
func (r *Registry) Join(code, playerID, displayName string, ch models.Channel) (*models.Party, error) {
	p, ok := r.parties[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, code)
	}
	if pl := p.Player(playerID); pl != nil {
		pl.Channel = ch
		log.WithFields(log.Fields{"party": code, "player": playerID}).Info("player reattached")
		return p, nil
	}
	if p.Status != models.StatusWaiting {
		return nil, fmt.Errorf("%w: game already started", models.ErrInvalidState)
	}
	if p.Full() {
		return nil, fmt.Errorf("%w: %d/%d players", models.ErrCapacity, len(p.Players), p.Capacity)
	}
	for _, pl := range p.Players {
		if pl.DisplayName == displayName {
			return nil, fmt.Errorf("%w: %s", models.ErrNameConflict, displayName)
		}
	}
	if err := validate.DisplayName(displayName); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	p.Players = append(p.Players, &models.Player{
		ID:          playerID,
		DisplayName: displayName,
		Channel:     ch,
		JoinedAt:    r.sched.Now(),
	})
	log.WithFields(log.Fields{"party": code, "player": playerID}).Info("player joined")
	return p, nil
}

// Leave removes a player. Host passes to the earliest remaining joiner; a party
// left empty is deleted and deleted is reported true.
func (r *Registry) Leave(code, playerID string) (*models.Party, bool, error) {
	p, ok := r.parties[code]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", models.ErrNotFound, code)
	}
	idx := p.IndexOf(playerID)
	if idx < 0 {
		return p, false, fmt.Errorf("%w: player %s not in party", models.ErrNotFound, playerID)
	}
	wasHost := p.Players[idx].IsHost
	p.Players = append(p.Players[:idx], p.Players[idx+1:]...)
	if p.Game != nil {
		delete(p.Game.Answers, playerID)
	}

	fields := log.Fields{"party": code, "player": playerID}
	if len(p.Players) == 0 {
		delete(r.parties, code)
		log.WithFields(fields).Info("last player left, party deleted")
		return p, true, nil
	}
	if wasHost {
		next := p.Players[0]
		next.IsHost = true
		p.HostID = next.ID
		fields["host"] = next.ID
	}
	log.WithFields(fields).Info("player left")
	return p, false, nil
}

// Detach clears the player's channel if it is still ch. It returns the
// player's detach generation and whether the channel was cleared.
func (r *Registry) Detach(code, playerID string, ch models.Channel) (int, bool) {
	p, ok := r.parties[code]
	if !ok {
		return 0, false
	}
	pl := p.Player(playerID)
	if pl == nil || pl.Channel == nil || pl.Channel != ch {
		return 0, false
	}
	pl.Channel = nil
	pl.Detaches++
	return pl.Detaches, true
}

// ExpireIdle deletes waiting parties whose ExpiresAt is not after now and
// returns their codes.
func (r *Registry) ExpireIdle(now time.Time) []string {
	var expired []string
	for code, p := range r.parties {
		if p.Status == models.StatusWaiting && !p.ExpiresAt.After(now) {
			delete(r.parties, code)
			expired = append(expired, code)
		}
	}
	if len(expired) > 0 {
		log.WithField("parties", expired).Info("expired idle parties")
	}
	return expired
}

// StartSweeper runs ExpireIdle every SweepInterval for as long as the scheduler runs.
func (r *Registry) StartSweeper() {
	r.sched.After(r.opts.SweepInterval, func() {
		r.ExpireIdle(r.sched.Now())
		r.StartSweeper()
	})
}

// RotateCode moves a party to a fresh code as one step: the key is remapped,
// status returns to waiting and every player's counters are cleared. The
// rematch lobby is deleted if nobody starts it within RematchIdle.
func (r *Registry) RotateCode(code string) (string, error) {
	p, ok := r.parties[code]
	if !ok {
		return "", fmt.Errorf("%w: %s", models.ErrNotFound, code)
	}
	newCode, err := r.uniqueCode()
	if err != nil {
		return "", err
	}

	delete(r.parties, code)
	p.Code = newCode
	r.parties[newCode] = p

	p.Status = models.StatusWaiting
	p.Game = nil
	for _, pl := range p.Players {
		pl.ResetStats()
	}
	now := r.sched.Now()
	p.CreatedAt = now
	p.ExpiresAt = now.Add(r.opts.RematchIdle)

	id := p.ID
	r.sched.After(r.opts.RematchIdle, func() { r.expireRematch(newCode, id) })

	log.WithFields(log.Fields{"old": code, "new": newCode}).Info("party code rotated")
	return newCode, nil
}

func (r *Registry) expireRematch(code string, id uuid.UUID) {
	p, ok := r.parties[code]
	if !ok || p.ID != id || p.Status != models.StatusWaiting {
		return
	}
	delete(r.parties, code)
	log.WithField("party", code).Info("rematch lobby expired")
}

// Get returns the live party at code.
func (r *Registry) Get(code string) (*models.Party, bool) {
	p, ok := r.parties[code]
	return p, ok
}

// Live reports whether p is still registered under its current code.
func (r *Registry) Live(p *models.Party) bool {
	cur, ok := r.parties[p.Code]
	return ok && cur == p
}

// Delete removes the party at code.
func (r *Registry) Delete(code string) bool {
	if _, ok := r.parties[code]; !ok {
		return false
	}
	delete(r.parties, code)
	log.WithField("party", code).Info("party deleted")
	return true
}

// Len is the number of live parties.
func (r *Registry) Len() int {
	return len(r.parties)
}
