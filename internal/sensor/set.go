package sensor

// Set is the per-entity capability set. Each capability is independent;
// accessors report whether the entity carries it.
type Set struct {
	lookout *Lookout
	passive *PassiveSonar
	active  *ActiveSonar
}

func (s *Set) Lookout() (*Lookout, bool)      { return s.lookout, s.lookout != nil }
func (s *Set) Passive() (*PassiveSonar, bool) { return s.passive, s.passive != nil }
func (s *Set) Active() (*ActiveSonar, bool)   { return s.active, s.active != nil }

func (s *Set) SetLookout(l *Lookout)      { s.lookout = l }
func (s *Set) SetPassive(p *PassiveSonar) { s.passive = p }
func (s *Set) SetActive(a *ActiveSonar)   { s.active = a }
