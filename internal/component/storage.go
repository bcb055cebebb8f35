package component

import "fmt"

// SlotStatus is the state of one torpedo storage location.
type SlotStatus uint8

const (
	SlotEmpty SlotStatus = iota
	SlotLoaded
	SlotReloading // receiving a torpedo from Pair
	SlotUnloading // handing its torpedo to Pair
)

func (s SlotStatus) String() string {
	switch s {
	case SlotEmpty:
		return "empty"
	case SlotLoaded:
		return "loaded"
	case SlotReloading:
		return "reloading"
	case SlotUnloading:
		return "unloading"
	}
	return "unknown"
}

// Slot is a tube or reserve position. During a transfer the source
// (unloading) and destination (reloading) point at each other and carry the
// same Remaining time.
type Slot struct {
	Status    SlotStatus
	Torpedo   string
	Pair      int
	Remaining float64
}

// Location groups slots by where they sit in the boat.
type Location uint8

const (
	LocNone Location = iota
	BowTube
	SternTube
	BowReserve
	SternReserve
	BowDeck
	SternDeck
)

var locationNames = [...]string{"none", "bow_tube", "stern_tube", "bow_reserve", "stern_reserve", "bow_deck", "stern_deck"}

func (l Location) String() string {
	if int(l) < len(locationNames) {
		return locationNames[l]
	}
	return "unknown"
}

// LocationByName is the inverse of String; unknown names give LocNone.
func LocationByName(name string) Location {
	for i, n := range locationNames {
		if n == name {
			return Location(i)
		}
	}
	return LocNone
}

// Layout is the slot count per location. Slots are indexed in the order
// bow tubes, stern tubes, bow reserve, stern reserve, bow deck, stern deck.
type Layout struct {
	BowTubes     int `yaml:"bow_tubes" json:"bow_tubes"`
	SternTubes   int `yaml:"stern_tubes" json:"stern_tubes"`
	BowReserve   int `yaml:"bow_reserve" json:"bow_reserve"`
	SternReserve int `yaml:"stern_reserve" json:"stern_reserve"`
	BowDeck      int `yaml:"bow_deck" json:"bow_deck"`
	SternDeck    int `yaml:"stern_deck" json:"stern_deck"`
}

func (l Layout) Total() int {
	return l.BowTubes + l.SternTubes + l.BowReserve + l.SternReserve + l.BowDeck + l.SternDeck
}

// TransferTimes are the seconds needed to move a torpedo across one leg of
// the path bow tube ↔ bow reserve ↔ bow deck ↔ stern deck ↔ stern reserve ↔
// stern tube.
type TransferTimes struct {
	Bow          float64 `yaml:"bow" json:"bow"`
	Stern        float64 `yaml:"stern" json:"stern"`
	BowDeck      float64 `yaml:"bow_deck" json:"bow_deck"`
	SternDeck    float64 `yaml:"stern_deck" json:"stern_deck"`
	BowSternDeck float64 `yaml:"bow_stern_deck" json:"bow_stern_deck"`
}

// TorpedoStorage holds every torpedo a submarine carries.
type TorpedoStorage struct {
	Layout Layout
	Times  TransferTimes
	Slots  []Slot
}

func NewTorpedoStorage(l Layout, t TransferTimes) *TorpedoStorage {
	s := &TorpedoStorage{Layout: l, Times: t, Slots: make([]Slot, l.Total())}
	for i := range s.Slots {
		s.Slots[i].Pair = -1
	}
	return s
}

// Range returns the half-open slot index range of a location.
func (s *TorpedoStorage) Range(loc Location) (int, int) {
	l := s.Layout
	counts := [...]int{0, l.BowTubes, l.SternTubes, l.BowReserve, l.SternReserve, l.BowDeck, l.SternDeck}
	if loc == LocNone || int(loc) >= len(counts) {
		return 0, 0
	}
	first := 0
	for i := 1; i < int(loc); i++ {
		first += counts[i]
	}
	return first, first + counts[loc]
}

// LocationOf maps a slot index back to its location.
func (s *TorpedoStorage) LocationOf(i int) Location {
	for loc := BowTube; loc <= SternDeck; loc++ {
		a, b := s.Range(loc)
		if i >= a && i < b {
			return loc
		}
	}
	return LocNone
}

// linear position of each location along the handling path
var pathOrder = [...]int{0, 1, 6, 2, 5, 3, 4}

// TransferTime is the time to move a torpedo between two slots.
func (s *TorpedoStorage) TransferTime(from, to int) float64 {
	fl, tl := s.LocationOf(from), s.LocationOf(to)
	if fl == LocNone || tl == LocNone || fl == tl {
		return 0
	}
	a, b := pathOrder[fl], pathOrder[tl]
	if a > b {
		a, b = b, a
	}
	tm := 0.0
	for leg := a; leg < b; leg++ {
		switch leg {
		case 1:
			tm += s.Times.Bow
		case 2:
			tm += s.Times.BowDeck
		case 3:
			tm += s.Times.BowSternDeck
		case 4:
			tm += s.Times.SternDeck
		case 5:
			tm += s.Times.Stern
		}
	}
	return tm
}

func (s *TorpedoStorage) valid(i int) bool { return i >= 0 && i < len(s.Slots) }

// Check reports slots that Step could not advance: unknown states and
// transfers whose two ends do not point at each other.
func (s *TorpedoStorage) Check() error {
	for i, sl := range s.Slots {
		var want SlotStatus
		switch sl.Status {
		case SlotEmpty, SlotLoaded:
			continue
		case SlotReloading:
			want = SlotUnloading
		case SlotUnloading:
			want = SlotReloading
		default:
			return fmt.Errorf("slot %d: unknown status %d", i, sl.Status)
		}
		if !s.valid(sl.Pair) || sl.Pair == i {
			return fmt.Errorf("slot %d: %s with pair %d", i, sl.Status, sl.Pair)
		}
		p := s.Slots[sl.Pair]
		if p.Status != want || p.Pair != i {
			return fmt.Errorf("slot %d: %s paired with %s slot %d", i, sl.Status, p.Status, sl.Pair)
		}
		if p.Remaining != sl.Remaining {
			return fmt.Errorf("slot %d: transfer times %g and %g differ", i, sl.Remaining, p.Remaining)
		}
	}
	return nil
}

// Transfer starts moving the torpedo in slot from into the empty slot to.
func (s *TorpedoStorage) Transfer(from, to int) bool {
	if !s.valid(from) || !s.valid(to) || from == to {
		return false
	}
	src, dst := &s.Slots[from], &s.Slots[to]
	if src.Status != SlotLoaded || dst.Status != SlotEmpty {
		return false
	}
	tm := s.TransferTime(from, to)
	dst.Torpedo = src.Torpedo
	src.Status, dst.Status = SlotUnloading, SlotReloading
	src.Pair, dst.Pair = to, from
	src.Remaining, dst.Remaining = tm, tm
	return true
}

// Step advances running transfers and returns the slots that finished
// reloading.
func (s *TorpedoStorage) Step(dt float64) []int {
	var done []int
	for i := range s.Slots {
		dst := &s.Slots[i]
		if dst.Status != SlotReloading {
			continue
		}
		src := &s.Slots[dst.Pair]
		dst.Remaining -= dt
		src.Remaining = dst.Remaining
		if dst.Remaining > 0 {
			continue
		}
		*src = Slot{Status: SlotEmpty, Pair: -1}
		dst.Status = SlotLoaded
		dst.Pair = -1
		dst.Remaining = 0
		done = append(done, i)
	}
	return done
}

// FindLoaded returns the first loaded slot of a location, or -1.
func (s *TorpedoStorage) FindLoaded(loc Location) int {
	a, b := s.Range(loc)
	for i := a; i < b; i++ {
		if s.Slots[i].Status == SlotLoaded {
			return i
		}
	}
	return -1
}

// Take empties a loaded slot and returns the torpedo type that was in it.
func (s *TorpedoStorage) Take(i int) (string, bool) {
	if !s.valid(i) || s.Slots[i].Status != SlotLoaded {
		return "", false
	}
	kind := s.Slots[i].Torpedo
	s.Slots[i] = Slot{Status: SlotEmpty, Pair: -1}
	return kind, true
}

// Load puts a torpedo into an empty slot without a transfer (scenario setup).
func (s *TorpedoStorage) Load(i int, kind string) bool {
	if !s.valid(i) || s.Slots[i].Status != SlotEmpty {
		return false
	}
	s.Slots[i] = Slot{Status: SlotLoaded, Torpedo: kind, Pair: -1}
	return true
}

// AutoReload starts a reserve-to-tube transfer for every empty tube that
// has a loaded reserve on the same end of the boat.
func (s *TorpedoStorage) AutoReload() int {
	started := 0
	for _, pair := range [...][2]Location{{BowTube, BowReserve}, {SternTube, SternReserve}} {
		a, b := s.Range(pair[0])
		for i := a; i < b; i++ {
			if s.Slots[i].Status != SlotEmpty {
				continue
			}
			if r := s.FindLoaded(pair[1]); r >= 0 && s.Transfer(r, i) {
				started++
			}
		}
	}
	return started
}

// Count returns the number of torpedoes aboard, including ones in transit.
func (s *TorpedoStorage) Count() int {
	n := 0
	for _, sl := range s.Slots {
		if sl.Status == SlotLoaded || sl.Status == SlotReloading {
			n++
		}
	}
	return n
}
