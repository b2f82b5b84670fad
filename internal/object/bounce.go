package object

import "github.com/tomz197/shardfall/internal/physics"

// Collide bounces overlapping asteroids off each other, using the broad phase
// grid to limit checks to nearby pairs.
func (m *AsteroidManager) Collide() {
	if !m.cfg.Bounce || m.active.Len() < 2 {
		return
	}
	asteroids := m.active.Items()

	m.grid.Clear()
	for i, a := range asteroids {
		m.grid.Insert(a.Position, i)
	}

	for i, a1 := range asteroids {
		if !a1.IsActive() {
			continue
		}
		m.grid.QueryAround(a1.Position, func(j int) bool {
			if j <= i {
				return false // Skip self and already-checked pairs
			}
			a2 := asteroids[j]
			if !a2.IsActive() {
				return false
			}
			dist := physics.Dist(a1.Position, a2.Position)
			if dist < a1.Radius+a2.Radius && dist > 0 {
				bounceAsteroids(a1, a2, dist)
			}
			return false
		})
	}
}

// bounceAsteroids handles elastic collision between two asteroids.
func bounceAsteroids(a1, a2 *Asteroid, dist float64) {
	// Collision normal from a1 to a2
	n := a2.Position.Sub(a1.Position).Mul(1 / dist)

	// Relative velocity along the collision normal
	dvn := a1.Velocity.Sub(a2.Velocity).Dot(n)

	// Don't resolve if velocities are separating
	if dvn < 0 {
		return
	}

	// Use radius squared as mass (area-based mass)
	m1 := a1.Radius * a1.Radius
	m2 := a2.Radius * a2.Radius
	total := m1 + m2

	impulse := 2 * dvn / total
	a1.Velocity = a1.Velocity.Sub(n.Mul(impulse * m2))
	a2.Velocity = a2.Velocity.Add(n.Mul(impulse * m1))

	// Separate proportionally to the mass ratio so they stop overlapping
	if overlap := a1.Radius + a2.Radius - dist; overlap > 0 {
		a1.Position = a1.Position.Sub(n.Mul(overlap * m2 / total))
		a2.Position = a2.Position.Add(n.Mul(overlap * m1 / total))
	}
}
