package sim

import (
	"log/slog"
	"slices"

	"github.com/udisondev/sentinel/internal/ai"
	"github.com/udisondev/sentinel/internal/model"
)

// flagBook keeps the presentation flags brains raise so snapshots can show them.
type flagBook struct {
	flags map[uint32]map[string]bool
}

func newFlagBook() *flagBook {
	return &flagBook{flags: make(map[uint32]map[string]bool)}
}

func (p *flagBook) StateChanged(agentID uint32, state model.State) {
	if ai.IsDebugEnabled() {
		slog.Debug("presenter state", "objectID", agentID, "state", state)
	}
}

func (p *flagBook) SetFlag(agentID uint32, flag string, on bool) {
	m := p.flags[agentID]
	if m == nil {
		if !on {
			return
		}
		m = make(map[string]bool)
		p.flags[agentID] = m
	}
	if on {
		m[flag] = true
	} else {
		delete(m, flag)
	}
}

func (p *flagBook) Trigger(agentID uint32, name string) {
	if ai.IsDebugEnabled() {
		slog.Debug("presenter trigger", "objectID", agentID, "trigger", name)
	}
}

func (p *flagBook) forget(agentID uint32) {
	delete(p.flags, agentID)
}

func (p *flagBook) flagsOf(agentID uint32) []string {
	m := p.flags[agentID]
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for f := range m {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}
