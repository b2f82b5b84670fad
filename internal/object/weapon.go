package object

import "time"

// Weapon gates firing behind a minimum interval between shots.
type Weapon struct {
	rate     time.Duration
	cooldown time.Duration
	bullets  *BulletManager
}

// NewWeapon creates a weapon firing through bullets at most once per rate.
func NewWeapon(rate time.Duration, bullets *BulletManager) *Weapon {
	return &Weapon{rate: rate, bullets: bullets}
}

// Update advances the cooldown and fires from ship's nose when trigger is held
// and the weapon is ready. Returns the bullet fired, if any.
func (w *Weapon) Update(dt time.Duration, trigger bool, ship *Ship) *Bullet {
	if w.cooldown > 0 {
		w.cooldown -= dt
	}
	if !trigger || w.cooldown > 0 || ship == nil {
		return nil
	}

	b := w.bullets.Fire(ship.Nose(), ship.Angle, ship.Velocity, ship.ID)
	if b != nil {
		w.cooldown = w.rate
	}
	return b
}

// Ready reports whether the next trigger pull would fire.
func (w *Weapon) Ready() bool {
	return w.cooldown <= 0
}

// Reset clears the cooldown.
func (w *Weapon) Reset() {
	w.cooldown = 0
}
