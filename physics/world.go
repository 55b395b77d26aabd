// Package physics is a small headless rigid-body backend for rolling sphere
// avatars on flat platform slabs. Platforms and sphere footprints live in a
// resolv space used as the broadphase; narrowphase tests are exact.
package physics

import (
	"math"

	"github.com/automoto/ballguys-mp/config"
	"github.com/automoto/ballguys-mp/shared/gamemath"
	"github.com/automoto/ballguys-mp/shared/leveldata"
	"github.com/solarlune/resolv"
)

const (
	tagPlatform = "platform"
	tagAvatar   = "avatar"
	tagQuery    = "query"

	// Vertical tolerance for resting contact
	restEpsilon = 0.5
	// Landing speeds below this settle instead of bouncing
	settleSpeed = 40.0
)

// Config holds the integration parameters.
type Config struct {
	Gravity           float64
	LinearDamping     float64
	AngularDamping    float64
	RollingGrip       float64
	MaxAngularSpeed   float64
	Restitution       float64
	GroundRestitution float64
	DefaultKillZ      float64
	CellSize          int
}

// ConfigFromSettings copies the physics section of the configuration.
func ConfigFromSettings(c config.PhysicsConfig) Config {
	return Config{
		Gravity:           c.Gravity,
		LinearDamping:     c.LinearDamping,
		AngularDamping:    c.AngularDamping,
		RollingGrip:       c.RollingGrip,
		MaxAngularSpeed:   c.MaxAngularSpeed,
		Restitution:       c.Restitution,
		GroundRestitution: c.GroundRestitution,
		DefaultKillZ:      c.DefaultKillZ,
		CellSize:          c.CellSize,
	}
}

type platformBody struct {
	leveldata.Platform
	object *resolv.Object
}

type pairKey struct{ a, b *Sphere }

// World owns the bodies of one simulation. It is not safe for concurrent use.
type World struct {
	cfg   Config
	killZ float64

	space  *resolv.Space
	margin float64
	query  *resolv.Object

	platforms map[*resolv.Object]*platformBody
	spheres   []*Sphere
	byObject  map[*resolv.Object]*Sphere
	touching  map[pairKey]bool

	// OnContact fires once when two spheres start touching, for each
	// ordering of the pair. point is on the surface of a facing b.
	OnContact func(a, b *Sphere, point gamemath.Vec3)
	// OnFell fires once when a sphere's centre drops below the kill height.
	OnFell func(s *Sphere)
}

// NewWorld builds a world from parsed level data. A nil arena gives an empty
// world with the default kill height.
func NewWorld(arena *leveldata.ArenaData, cfg Config) *World {
	if cfg.CellSize <= 0 {
		cfg.CellSize = 64
	}
	w := &World{
		cfg:       cfg,
		killZ:     cfg.DefaultKillZ,
		platforms: make(map[*resolv.Object]*platformBody),
		byObject:  make(map[*resolv.Object]*Sphere),
		touching:  make(map[pairKey]bool),
	}

	width, height := 0, 0
	if arena != nil {
		width, height = arena.MapWidth, arena.MapHeight
		if arena.HasKillZ {
			w.killZ = arena.KillZ
		}
		for _, p := range arena.Platforms {
			width = max(width, int(math.Ceil(p.X+p.W)))
			height = max(height, int(math.Ceil(p.Y+p.H)))
		}
	}

	// Bodies hang over platform edges; the margin keeps them inside the
	// broadphase grid until they are well clear of the arena.
	w.margin = float64(cfg.CellSize * 4)
	spanW := width + int(2*w.margin)
	spanH := height + int(2*w.margin)
	w.space = resolv.NewSpace(spanW, spanH, cfg.CellSize, cfg.CellSize)

	if arena != nil {
		for _, p := range arena.Platforms {
			w.addPlatform(p)
		}
	}

	w.query = resolv.NewObject(0, 0, 1, 1, tagQuery)
	w.space.Add(w.query)
	return w
}

func (w *World) addPlatform(p leveldata.Platform) {
	obj := resolv.NewObject(p.X+w.margin, p.Y+w.margin, p.W, p.H, tagPlatform)
	w.space.Add(obj)
	w.platforms[obj] = &platformBody{Platform: p, object: obj}
}

func (w *World) KillZ() float64 { return w.killZ }

// Spheres returns the bodies in insertion order.
func (w *World) Spheres() []*Sphere {
	return append([]*Sphere(nil), w.spheres...)
}

// AddSphere creates a simulating sphere at rest.
func (w *World) AddSphere(pos gamemath.Vec3, radius, mass float64) *Sphere {
	s := &Sphere{
		pos:        pos,
		radius:     radius,
		mass:       mass,
		inertia:    gamemath.SphereInertia(mass, radius),
		simulating: true,
		world:      w,
	}
	s.object = resolv.NewObject(pos.X-radius+w.margin, pos.Y-radius+w.margin, 2*radius, 2*radius, tagAvatar)
	w.space.Add(s.object)
	w.byObject[s.object] = s
	w.spheres = append(w.spheres, s)
	return s
}

// RemoveSphere takes a sphere out of the world. Removed spheres stop
// simulating.
func (w *World) RemoveSphere(s *Sphere) {
	if s == nil || s.world != w {
		return
	}
	w.space.Remove(s.object)
	delete(w.byObject, s.object)
	for i, o := range w.spheres {
		if o == s {
			w.spheres = append(w.spheres[:i], w.spheres[i+1:]...)
			break
		}
	}
	for k := range w.touching {
		if k.a == s || k.b == s {
			delete(w.touching, k)
		}
	}
	s.world = nil
}

// platformsUnder returns the platforms whose footprint may overlap a circle
// of radius r around (x, y).
func (w *World) platformsUnder(x, y, r float64) []*platformBody {
	w.query.X = x - r + w.margin
	w.query.Y = y - r + w.margin
	w.query.W = 2 * r
	w.query.H = 2 * r
	w.query.Update()

	check := w.query.Check(0, 0, tagPlatform)
	if check == nil {
		return nil
	}
	var out []*platformBody
	for _, obj := range check.ObjectsByTags(tagPlatform) {
		p, ok := w.platforms[obj]
		if !ok {
			continue
		}
		if gamemath.CircleOverlapsRect(x, y, r, p.X, p.Y, p.W, p.H) {
			out = append(out, p)
		}
	}
	return out
}

// SweepSphereDown reports whether a sphere of the given radius moved down
// from center over distance would touch the top of any platform, including
// one it already overlaps at the start.
func (w *World) SweepSphereDown(center gamemath.Vec3, radius, distance float64) bool {
	if distance < 0 {
		distance = 0
	}
	lowest := center.Z - distance - radius
	for _, p := range w.platformsUnder(center.X, center.Y, radius) {
		if p.Top >= lowest && p.Top <= center.Z {
			return true
		}
	}
	return false
}

// Step advances every simulating sphere by dt seconds and then fires contact
// and fall callbacks.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}

	for _, s := range w.spheres {
		if !s.IsSimulatingPhysics() {
			s.torque = gamemath.Vec3{}
			continue
		}
		w.integrate(s, dt)
	}

	contacts := w.resolveContacts()

	var fell []*Sphere
	for _, s := range w.spheres {
		if s.IsSimulatingPhysics() && !s.fell && s.pos.Z < w.killZ {
			s.fell = true
			fell = append(fell, s)
		}
	}

	if w.OnContact != nil {
		for _, c := range contacts {
			w.OnContact(c.a, c.b, c.pointA)
			w.OnContact(c.b, c.a, c.pointB)
		}
	}
	if w.OnFell != nil {
		for _, s := range fell {
			w.OnFell(s)
		}
	}
}

func (w *World) integrate(s *Sphere, dt float64) {
	s.angVel = s.angVel.Add(s.torque.Scale(dt))
	s.torque = gamemath.Vec3{}
	if spin := s.angVel.Len(); spin > w.cfg.MaxAngularSpeed && w.cfg.MaxAngularSpeed > 0 {
		s.angVel = s.angVel.Scale(w.cfg.MaxAngularSpeed / spin)
	}
	s.angVel = s.angVel.Scale(math.Max(0, 1-w.cfg.AngularDamping*dt))

	if s.grounded {
		// Rolling without slipping: v = w x (r * up). Grip pulls ground
		// speed and spin toward each other.
		grip := math.Min(1, w.cfg.RollingGrip*dt)
		rolling := s.angVel.Cross(gamemath.Up.Scale(s.radius))
		horiz := gamemath.Lerp(s.vel.Horizontal(), rolling.Horizontal(), grip)
		horiz = horiz.Scale(math.Max(0, 1-w.cfg.LinearDamping*dt))
		s.vel = gamemath.Vec3{X: horiz.X, Y: horiz.Y, Z: s.vel.Z}

		spin := gamemath.Up.Cross(horiz).Scale(1 / s.radius)
		spin.Z = s.angVel.Z
		s.angVel = gamemath.Lerp(s.angVel, spin, grip)
	}

	// Gravity always acts; a resting sphere is pushed back onto its support.
	s.vel.Z -= w.cfg.Gravity * dt

	prevBottom := s.pos.Z - s.radius
	s.pos = s.pos.Add(s.vel.Scale(dt))
	bottom := s.pos.Z - s.radius

	s.grounded = false
	if s.vel.Z <= 0 {
		support, ok := w.support(s, prevBottom, bottom)
		if ok {
			s.pos.Z = support + s.radius
			bounce := -s.vel.Z * w.cfg.GroundRestitution
			if bounce < settleSpeed {
				bounce = 0
			}
			s.vel.Z = bounce
			s.grounded = bounce == 0
		}
	}
	s.syncObject()
}

// support returns the highest platform top the sphere's bottom crossed or
// rests on during this step.
func (w *World) support(s *Sphere, prevBottom, bottom float64) (float64, bool) {
	best, found := 0.0, false
	for _, p := range w.platformsUnder(s.pos.X, s.pos.Y, s.radius*0.9) {
		if prevBottom >= p.Top-restEpsilon && bottom <= p.Top+restEpsilon {
			if !found || p.Top > best {
				best, found = p.Top, true
			}
		}
	}
	return best, found
}

type contact struct {
	a, b           *Sphere
	pointA, pointB gamemath.Vec3
}

// resolveContacts separates overlapping spheres, exchanges momentum along
// the contact normal and returns the pairs that started touching this step.
func (w *World) resolveContacts() []contact {
	var begun []contact
	now := make(map[pairKey]bool)

	for i, a := range w.spheres {
		if !a.IsSimulatingPhysics() {
			continue
		}
		check := a.object.Check(0, 0, tagAvatar)
		if check == nil {
			continue
		}
		for _, obj := range check.ObjectsByTags(tagAvatar) {
			b, ok := w.byObject[obj]
			if !ok || !b.IsSimulatingPhysics() || w.index(b) <= i {
				continue
			}

			d := b.pos.Sub(a.pos)
			dist := d.Len()
			reach := a.radius + b.radius
			if dist >= reach || dist <= gamemath.NearlyZero {
				continue
			}
			n := d.Scale(1 / dist)

			invA, invB := 1/a.mass, 1/b.mass
			push := (reach - dist) / (invA + invB)
			a.pos = a.pos.Sub(n.Scale(push * invA))
			b.pos = b.pos.Add(n.Scale(push * invB))

			if closing := b.vel.Sub(a.vel).Dot(n); closing < 0 {
				j := -(1 + w.cfg.Restitution) * closing / (invA + invB)
				a.vel = a.vel.Sub(n.Scale(j * invA))
				b.vel = b.vel.Add(n.Scale(j * invB))
			}
			a.syncObject()
			b.syncObject()

			key := pairKey{a, b}
			now[key] = true
			if !w.touching[key] {
				begun = append(begun, contact{
					a:      a,
					b:      b,
					pointA: a.pos.Add(n.Scale(a.radius)),
					pointB: b.pos.Sub(n.Scale(b.radius)),
				})
			}
		}
	}

	w.touching = now
	return begun
}

func (w *World) index(s *Sphere) int {
	for i, o := range w.spheres {
		if o == s {
			return i
		}
	}
	return -1
}
