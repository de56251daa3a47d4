package studio

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"

	"prompt-studio/internal/framework"
	"prompt-studio/internal/prompt"
	"prompt-studio/internal/sections"
)

// Result is one parsed model answer. It is never mutated after creation; a
// refinement produces a new Result.
type Result struct {
	ID        string                  `json:"id"`
	ParentID  string                  `json:"parent_id,omitempty"`
	Owner     string                  `json:"-"`
	Framework framework.ID            `json:"framework"`
	Mode      sections.Mode           `json:"mode"`
	Raw       string                  `json:"raw"`
	Sections  []sections.Section      `json:"sections"`
	JSON      string                  `json:"json,omitempty"`
	Concise   bool                    `json:"concise"`
	CoPilot   *sections.CoPilotOutput `json:"copilot,omitempty"`
	CreatedAt time.Time               `json:"created_at"`

	Instruction prompt.Instruction `json:"-"`
}

func newResult(owner, parentID string, in prompt.Instruction, raw string) Result {
	r := Result{
		ID:          newID(),
		ParentID:    parentID,
		Owner:       owner,
		Framework:   in.Framework,
		Mode:        in.Mode,
		Raw:         raw,
		Sections:    in.Sections(raw),
		Concise:     in.Concise,
		CreatedAt:   time.Now().UTC(),
		Instruction: in,
	}
	if !in.Concise && sections.IsJSON(raw) {
		r.JSON = sections.PrettyJSON(raw)
	}
	if in.CoPilot {
		if out, ok := sections.ParseCoPilot(raw); ok {
			r.CoPilot = &out
		}
	}
	return r
}

// resultStore keeps results for a TTL. The latest pointer per owner is
// replaced on every store, never merged.
type resultStore struct {
	c *cache.Cache
}

func newResultStore(ttl time.Duration) *resultStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &resultStore{c: cache.New(ttl, ttl/2)}
}

func (s *resultStore) put(r Result) {
	s.c.SetDefault("result:"+r.ID, r)
	s.c.SetDefault("latest:"+r.Owner, r.ID)
}

func (s *resultStore) get(id string) (Result, bool) {
	v, ok := s.c.Get("result:" + id)
	if !ok {
		return Result{}, false
	}
	r, ok := v.(Result)
	return r, ok
}

func (s *resultStore) latest(owner string) (Result, bool) {
	v, ok := s.c.Get("latest:" + owner)
	if !ok {
		return Result{}, false
	}
	id, _ := v.(string)
	return s.get(id)
}

func newID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return hex.EncodeToString([]byte(time.Now().Format("150405.000000")))
	}
	return hex.EncodeToString(b[:])
}
