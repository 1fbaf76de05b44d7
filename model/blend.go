package model

// Scale8 scales i by scale/256, treating 255 as full scale.
func Scale8(i, scale uint8) uint8 {
	return uint8((uint16(i) * (1 + uint16(scale))) >> 8)
}

// Scale8Video is Scale8 with the guarantee that a nonzero value scaled by a
// nonzero amount never becomes zero.
func Scale8Video(i, scale uint8) uint8 {
	j := uint8((uint16(i) * uint16(scale)) >> 8)
	if i != 0 && scale != 0 {
		j++
	}
	return j
}

// BlendU8Toward moves cur toward target by amount/256 of the distance,
// rounding so that cur always moves at least one step while amount > 0.
func BlendU8Toward(cur, target, amount uint8) uint8 {
	if cur == target {
		return cur
	}
	if cur < target {
		return cur + Scale8Video(target-cur, amount)
	}
	return cur - Scale8Video(cur-target, amount)
}

// BlendToward returns cur advanced per channel toward target.
func BlendToward(cur, target Pixel, amount uint8) Pixel {
	return Pixel{
		R: BlendU8Toward(cur.R, target.R, amount),
		G: BlendU8Toward(cur.G, target.G, amount),
		B: BlendU8Toward(cur.B, target.B, amount),
	}
}

// Scale dims every channel by scale/256.
func (p Pixel) Scale(scale uint8) Pixel {
	return Pixel{R: Scale8(p.R, scale), G: Scale8(p.G, scale), B: Scale8(p.B, scale)}
}
