package economy

import (
	"sort"
	"strconv"
	"strings"
)

type Resource string

const (
	Gold       Resource = "gold"
	Wood       Resource = "wood"
	Stone      Resource = "stone"
	Food       Resource = "food"
	Energy     Resource = "energy"
	Experience Resource = "experience"
	Agrobucks  Resource = "agrobucks"

	DroughtProtection Resource = "drought_protection"
	Butterflies       Resource = "butterflies"
)

// Balance maps a resource kind to an amount. As a stored balance every value
// is >= 0; as a delta values may be signed.
type Balance map[Resource]int

func (b Balance) Get(r Resource) int {
	if b == nil {
		return 0
	}
	return b[r]
}

func (b Balance) Clone() Balance {
	out := make(Balance, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Negate turns a cost (positive amounts) into a debit delta.
func (b Balance) Negate() Balance {
	out := make(Balance, len(b))
	for k, v := range b {
		out[k] = -v
	}
	return out
}

// Plus merges two deltas component-wise.
func (b Balance) Plus(other Balance) Balance {
	out := b.Clone()
	for k, v := range other {
		out[k] += v
	}
	return out
}

func (b Balance) Touches(r Resource) bool {
	return b.Get(r) != 0
}

func (b Balance) IsZero() bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// Positive keeps only the strictly positive components.
func (b Balance) Positive() Balance {
	out := Balance{}
	for k, v := range b {
		if v > 0 {
			out[k] = v
		}
	}
	return out
}

// Keys returns resource kinds in stable order.
func (b Balance) Keys() []Resource {
	keys := make([]Resource, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (b Balance) String() string {
	parts := make([]string, 0, len(b))
	for _, k := range b.Keys() {
		parts = append(parts, string(k)+"="+strconv.Itoa(b[k]))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// FromStrings converts catalog/wire maps.
func FromStrings(m map[string]int) Balance {
	out := make(Balance, len(m))
	for k, v := range m {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		out[Resource(k)] += v
	}
	return out
}

func (b Balance) Strings() map[string]int {
	out := make(map[string]int, len(b))
	for k, v := range b {
		out[string(k)] = v
	}
	return out
}
