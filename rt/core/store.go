package core

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrEmptyPopulation = errors.New("particle count must be at least 1")

// View is the read-only side of a Store, handed to renderers.
type View interface {
	Len() int
	Position(i int) mgl32.Vec3
	Color(i int) mgl32.Vec3
}

// Store keeps particle state as three lockstep arrays (SoA).
// The count is fixed at construction; there is no way to grow or shrink it.
// Each index is owned by exactly one lane during a dispatch.
type Store struct {
	pos   []mgl32.Vec3
	vel   []mgl32.Vec3
	color []mgl32.Vec3
}

func NewStore(count int) (*Store, error) {
	if count < 1 {
		return nil, ErrEmptyPopulation
	}
	return &Store{
		pos:   make([]mgl32.Vec3, count),
		vel:   make([]mgl32.Vec3, count),
		color: make([]mgl32.Vec3, count),
	}, nil
}

func (s *Store) Len() int { return len(s.pos) }

func (s *Store) Position(i int) mgl32.Vec3 { return s.pos[i] }
func (s *Store) Velocity(i int) mgl32.Vec3 { return s.vel[i] }
func (s *Store) Color(i int) mgl32.Vec3    { return s.color[i] }

// Seed overwrites one particle's position and velocity.
// Used to place particles outside of the init kernel (tests, scripted scenes).
func (s *Store) Seed(i int, pos, vel mgl32.Vec3) {
	s.pos[i] = pos
	s.vel[i] = vel
}

func (s *Store) SetColor(i int, c mgl32.Vec3) { s.color[i] = c }

// Clone returns a deep copy with the same count.
func (s *Store) Clone() *Store {
	return &Store{
		pos:   append([]mgl32.Vec3(nil), s.pos...),
		vel:   append([]mgl32.Vec3(nil), s.vel...),
		color: append([]mgl32.Vec3(nil), s.color...),
	}
}

// Equal reports bit-exact equality of all three arrays.
func (s *Store) Equal(o *Store) bool {
	if s.Len() != o.Len() {
		return false
	}
	for i := range s.pos {
		if s.pos[i] != o.pos[i] || s.vel[i] != o.vel[i] || s.color[i] != o.color[i] {
			return false
		}
	}
	return true
}

// lengthsAgree checks the lockstep invariant.
func (s *Store) lengthsAgree() bool {
	return len(s.pos) == len(s.vel) && len(s.vel) == len(s.color)
}
