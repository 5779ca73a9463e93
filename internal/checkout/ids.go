package checkout

import (
	"strconv"
	"strings"
	"sync"

	"github.com/angelmondragon/storefront/pkg/clock"
	"github.com/google/uuid"
)

// IDGenerator issues ORD-<base36 ms>-<hex> transaction ids. The millisecond
// part strictly increases per generator, so ids never repeat in a process.
type IDGenerator struct {
	clock  clock.Clock
	suffix func() string

	mu   sync.Mutex
	last int64
}

func NewIDGenerator(clk clock.Clock) *IDGenerator {
	if clk == nil {
		clk = clock.Real{}
	}
	return &IDGenerator{clock: clk, suffix: randomSuffix}
}

func (g *IDGenerator) Next() string {
	g.mu.Lock()
	ms := g.clock.Now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	g.mu.Unlock()

	return "ORD-" + strings.ToUpper(strconv.FormatInt(ms, 36)) + "-" + g.suffix()
}

func randomSuffix() string {
	id := uuid.New()
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:4])
}
