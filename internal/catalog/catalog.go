package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// PhaseStarting is the purchase phase whose total is held to the starting budget.
const PhaseStarting = "starting"

var (
	//go:embed data/item_costs.json
	embeddedCosts []byte
	//go:embed data/item_slugs.json
	embeddedSlugs []byte

	quantitySuffix = regexp.MustCompile(`(?i)\sx(\d+)$`)

	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Catalog maps canonical item display names to unit gold cost.
// It is immutable after construction and safe for concurrent reads.
type Catalog struct {
	costs map[string]int
	slugs map[string]string
}

// Item is a catalog entry as exposed over HTTP.
type Item struct {
	Name string `json:"name"`
	Cost int    `json:"cost"`
	Slug string `json:"slug,omitempty"`
}

// Row is the subset of a purchase entry needed for pricing.
type Row struct {
	Item  string
	Phase string
}

// New copies the given tables into a Catalog. Negative costs are clamped to zero.
func New(costs map[string]int, slugs map[string]string) *Catalog {
	c := &Catalog{
		costs: make(map[string]int, len(costs)),
		slugs: make(map[string]string, len(slugs)),
	}
	for name, cost := range costs {
		if cost < 0 {
			cost = 0
		}
		c.costs[name] = cost
	}
	for name, slug := range slugs {
		c.slugs[name] = slug
	}
	return c
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = parse(embeddedCosts, embeddedSlugs)
	})
	return defaultCatalog, defaultErr
}

// Load reads an item_costs.json override. An item_slugs.json next to it is used when present.
// An empty path returns the embedded catalog.
func Load(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default()
	}
	costs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read item catalog: %w", err)
	}
	slugs, err := os.ReadFile(filepath.Join(filepath.Dir(path), "item_slugs.json"))
	if err != nil {
		slugs = nil
	}
	return parse(costs, slugs)
}

func parse(costsRaw, slugsRaw []byte) (*Catalog, error) {
	var costs map[string]int
	if err := json.Unmarshal(costsRaw, &costs); err != nil {
		return nil, fmt.Errorf("decode item costs: %w", err)
	}
	var slugs map[string]string
	if len(slugsRaw) > 0 {
		if err := json.Unmarshal(slugsRaw, &slugs); err != nil {
			return nil, fmt.Errorf("decode item slugs: %w", err)
		}
	}
	return New(costs, slugs), nil
}

// BaseName strips a trailing " xN" quantity suffix.
func BaseName(name string) string {
	return strings.TrimSpace(quantitySuffix.ReplaceAllString(name, ""))
}

// Quantity parses the " xN" suffix, defaulting to 1. An N too large for an int
// saturates at math.MaxInt.
func Quantity(name string) int {
	m := quantitySuffix.FindStringSubmatch(name)
	if m == nil {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	switch {
	case errors.Is(err, strconv.ErrRange):
		return math.MaxInt
	case err != nil || n < 1:
		return 1
	}
	return n
}

// Cost returns unit cost times quantity, saturating at math.MaxInt. Unknown items cost 0.
func (c *Catalog) Cost(name string) int {
	if c == nil {
		return 0
	}
	unit, qty := c.costs[BaseName(name)], Quantity(name)
	if unit > 0 && qty > math.MaxInt/unit {
		return math.MaxInt
	}
	return unit * qty
}

// Has reports whether the base name of item is priced.
func (c *Catalog) Has(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.costs[BaseName(name)]
	return ok
}

// SumStartingGold totals the cost of rows in the starting phase.
func (c *Catalog) SumStartingGold(rows []Row) int {
	total := 0
	for _, r := range rows {
		if strings.EqualFold(strings.TrimSpace(r.Phase), PhaseStarting) {
			total = addSaturating(total, c.Cost(r.Item))
		}
	}
	return total
}

// addSaturating adds two non-negative costs without wrapping.
func addSaturating(a, b int) int {
	if b > math.MaxInt-a {
		return math.MaxInt
	}
	return a + b
}

// Len reports the number of priced items.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.costs)
}

// Items lists the catalog sorted by name.
func (c *Catalog) Items() []Item {
	if c == nil {
		return nil
	}
	out := make([]Item, 0, len(c.costs))
	for name, cost := range c.costs {
		out = append(out, Item{Name: name, Cost: cost, Slug: c.slugs[name]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
