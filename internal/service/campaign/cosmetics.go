package campaign

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

var (
	countries = []string{"Russia", "Canada", "USA", "Mexico", "India", "China"}
	platforms = []string{"Windows 10", "Windows 11", "macOS 12"}
	browsers  = []string{"Chrome", "Firefox", "Edge"}
)

// emailDateLayout is the RFC 1123Z shape used in the decorative date line.
const emailDateLayout = "Mon, 02 Jan 2006 15:04:05 +0000"

// Cosmetics produces the decorative "suspicious sign-in" details shown in
// email bodies. None of the values are stored.
type Cosmetics struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewCosmetics uses src for randomness and now for the date line. A nil src
// seeds from the runtime; a nil now uses time.Now.
func NewCosmetics(src rand.Source, now func() time.Time) *Cosmetics {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	if now == nil {
		now = time.Now
	}
	return &Cosmetics{rng: rand.New(src), now: now}
}

// CosmeticFields is one draw of decorative values.
type CosmeticFields struct {
	SenderIP string
	Country  string
	Platform string
	Browser  string
	Date     string
}

// Draw returns a fresh set of values.
func (c *Cosmetics) Draw() CosmeticFields {
	c.mu.Lock()
	defer c.mu.Unlock()
	octet := func() int { return 10 + c.rng.IntN(241) }
	return CosmeticFields{
		SenderIP: fmt.Sprintf("%d.%d.%d.%d", octet(), octet(), octet(), octet()),
		Country:  countries[c.rng.IntN(len(countries))],
		Platform: platforms[c.rng.IntN(len(platforms))],
		Browser:  browsers[c.rng.IntN(len(browsers))],
		Date:     c.now().UTC().Format(emailDateLayout),
	}
}
