// internal/broadcast/gateway.go
package broadcast

import (
	"encoding/json"

	"github.com/jason-s-yu/quizparty/internal/models"
	"github.com/jason-s-yu/quizparty/internal/protocol"
	log "github.com/sirupsen/logrus"
)

// Lookup resolves a party code to its live party.
type Lookup interface {
	Get(code string) (*models.Party, bool)
}

// Gateway fans envelopes out to party members. Absent or closed channels are
// skipped; a disconnected player stays a member until removed explicitly.
type Gateway struct {
	parties Lookup
}

func NewGateway(parties Lookup) *Gateway {
	return &Gateway{parties: parties}
}

// Broadcast delivers env to every connected member of the party at code.
// Returns the number of channels the frame was handed to.
func (g *Gateway) Broadcast(code string, env protocol.Envelope) int {
	p, ok := g.parties.Get(code)
	if !ok {
		return 0
	}
	return g.BroadcastParty(p, env)
}

// BroadcastParty is Broadcast for a party the caller already holds.
func (g *Gateway) BroadcastParty(p *models.Party, env protocol.Envelope) int {
	data, err := json.Marshal(env)
	if err != nil {
		log.WithError(err).WithField("type", env.Type).Error("broadcast: marshal failed")
		return 0
	}
	sent := 0
	for _, pl := range p.Players {
		if !pl.Connected() {
			continue
		}
		if err := pl.Channel.Send(data); err != nil {
			log.WithFields(log.Fields{
				"party":  p.Code,
				"player": pl.ID,
				"type":   env.Type,
			}).Debugf("broadcast: send skipped: %v", err)
			continue
		}
		sent++
	}
	return sent
}

// Send delivers env to a single channel. A nil or closed channel is a no-op.
func (g *Gateway) Send(ch models.Channel, env protocol.Envelope) {
	if ch == nil || !ch.Open() {
		return
	}
	data, err := json.Marshal(env)
	if err != nil {
		log.WithError(err).WithField("type", env.Type).Error("send: marshal failed")
		return
	}
	if err := ch.Send(data); err != nil {
		log.WithField("conn", ch.ID()).Debugf("send skipped: %v", err)
	}
}
