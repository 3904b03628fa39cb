// Season casting: creates the initial houseguest pool with names, traits,
// and correlated stat vectors.
package house

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Spawner creates houseguests for a season.
type Spawner struct {
	rng    *rand.Rand
	noise  opensimplex.Noise
	nextID HouseguestID
}

// NewSpawner creates a casting spawner with the given seed.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{
		rng:    rand.New(rand.NewSource(seed + 300)),
		noise:  opensimplex.NewNormalized(seed),
		nextID: 1,
	}
}

// SetNextID sets the next houseguest ID to be issued (used when restoring from DB).
func (s *Spawner) SetNextID(id HouseguestID) {
	s.nextID = id
}

// SpawnCast creates a full season cast. The first houseguest is flagged as the
// player seat; everyone else is NPC-run.
func (s *Spawner) SpawnCast(count int) []*Houseguest {
	cast := make([]*Houseguest, 0, count)
	for i := 0; i < count; i++ {
		hg := s.spawnOne(i)
		if i == 0 {
			hg.IsPlayer = true
		}
		cast = append(cast, hg)
	}
	return cast
}

func (s *Spawner) spawnOne(slot int) *Houseguest {
	id := s.nextID
	s.nextID++

	return &Houseguest{
		ID:     id,
		Name:   s.generateName(),
		Stats:  s.statVector(slot),
		Traits: s.pickTraits(),
		Status: StatusActive,
	}
}

// statVector samples the noise field over (cast slot, stat axis) so stats within
// one houseguest correlate, so athletes cluster high physical/endurance instead of
// every stat being an independent uniform draw.
func (s *Spawner) statVector(slot int) StatVector {
	sample := func(axis int) int {
		n := s.noise.Eval2(float64(slot)*0.71, float64(axis)*0.43)
		// Small per-stat jitter so castmates on adjacent slots still differ.
		n += (s.rng.Float64() - 0.5) * 0.2
		v := 1 + int(n*9.0)
		if v < 1 {
			v = 1
		}
		if v > 10 {
			v = 10
		}
		return v
	}

	return StatVector{
		Physical:    sample(0),
		Endurance:   sample(1),
		Mental:      sample(2),
		Social:      sample(3),
		Loyalty:     sample(4),
		Strategic:   sample(5),
		Luck:        sample(6),
		Competition: sample(7),
	}
}

// pickTraits assigns 2–3 distinct traits from the casting vocabulary.
func (s *Spawner) pickTraits() []Trait {
	n := 2 + s.rng.Intn(2)
	picked := make([]Trait, 0, n)
	perm := s.rng.Perm(len(AllTraits))
	for _, idx := range perm[:n] {
		picked = append(picked, AllTraits[idx])
	}
	return picked
}

func (s *Spawner) generateName() string {
	first := firstNames[s.rng.Intn(len(firstNames))]
	last := lastNames[s.rng.Intn(len(lastNames))]
	return first + " " + last
}

var firstNames = []string{
	"Alex", "Bailey", "Cameron", "Dana", "Eli", "Frankie", "Gabriel", "Harper",
	"Imani", "Jordan", "Kai", "Lauren", "Marcus", "Nadia", "Omar", "Paige",
	"Quinn", "Riley", "Simone", "Tyler", "Uma", "Victor", "Willow", "Xander",
	"Yasmin", "Zane", "Brooke", "Caleb", "Destiny", "Ethan",
}

var lastNames = []string{
	"Abbott", "Bennett", "Castillo", "Delgado", "Everett", "Fontaine", "Grayson",
	"Huang", "Ivers", "Jacobs", "Kowalski", "Lennox", "Mercer", "Nakamura",
	"Okafor", "Price", "Quintana", "Reyes", "Sandoval", "Thorne", "Usher",
	"Vaughn", "Whitfield", "Young", "Zimmerman",
}
