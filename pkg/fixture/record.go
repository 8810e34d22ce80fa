// Package fixture generates the nested JSON records used as parser benchmark input.
package fixture

import (
	"math/rand/v2"
	"strings"
)

// Field order matters: encoding/json emits struct fields in declaration order,
// so both structs list their fields alphabetically to produce sorted keys.

// Record is a single element of the generated document.
type Record struct {
	Bar Bar `json:"bar"`
	Foo int `json:"foo"`
}

// Bar is the nested object under Record.Bar.
type Bar struct {
	Baz       string `json:"baz"`
	Bizbizbiz string `json:"bizbizbiz"`
	Bouou     []int  `json:"bouou"`
	Poo       string `json:"poo"`
}

const (
	DefaultCount = 1_000_000

	MaxInt = 100

	MaxBazLen       = 100
	MinBizbizbizLen = 20
	MaxBizbizbizLen = 30
	MaxBououLen     = 10
)

// Letters is the alphabet for every generated string.
const Letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// PooValues are emitted as strings, not JSON literals.
var PooValues = []string{"true", "false", "null"}

// Progress receives one Add(1) per generated record.
// *progressbar.ProgressBar satisfies it.
type Progress interface {
	Add(num int) error
}

// Generator produces records from a per-instance random source
type Generator struct {
	rand *rand.Rand
}

// NewGenerator wraps an existing random source
func NewGenerator(r *rand.Rand) *Generator {
	return &Generator{rand: r}
}

// NewSeeded returns a generator whose output is fully determined by seed
func NewSeeded(seed uint64) *Generator {
	return NewGenerator(rand.New(rand.NewPCG(seed, seed)))
}

// maxPrealloc bounds the up-front allocation; append grows past it
const maxPrealloc = 1 << 20

// Generate builds count records in memory. A nil Progress is allowed.
// Reporting stops after the first Progress error; generation does not.
func (g *Generator) Generate(count int, p Progress) []Record {
	records := make([]Record, 0, preallocCap(count))
	for i := 0; i < count; i++ {
		records = append(records, g.Record())
		if p != nil {
			if err := p.Add(1); err != nil {
				p = nil
			}
		}
	}
	return records
}

func preallocCap(count int) int {
	return min(max(count, 0), maxPrealloc)
}

// Record draws a single record. Every field is drawn independently.
func (g *Generator) Record() Record {
	return Record{
		Foo: g.intn(0, MaxInt),
		Bar: Bar{
			Baz:       g.letters(g.intn(0, MaxBazLen)),
			Poo:       PooValues[g.rand.IntN(len(PooValues))],
			Bizbizbiz: g.letters(g.intn(MinBizbizbizLen, MaxBizbizbizLen)),
			Bouou:     g.ints(g.intn(0, MaxBououLen)),
		},
	}
}

// intn returns a uniform integer in [lo, hi], both inclusive
func (g *Generator) intn(lo, hi int) int {
	return lo + g.rand.IntN(hi-lo+1)
}

func (g *Generator) letters(n int) string {
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		sb.WriteByte(Letters[g.rand.IntN(len(Letters))])
	}
	return sb.String()
}

// ints never returns nil so an empty array encodes as [] rather than null
func (g *Generator) ints(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = g.intn(0, MaxInt)
	}
	return out
}
