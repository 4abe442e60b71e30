package render

import "image/color"

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// fillFieldRGBA tints each pixel by where its field value falls in [lo, hi].
// Alpha scales with the normalised value so low values stay transparent.
func fillFieldRGBA(buf []byte, field []float64, lo, hi float64, tint color.RGBA) {
	span := hi - lo
	for i, v := range field {
		t := 0.0
		if span > 0 {
			t = (v - lo) / span
		}
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
		a := float64(tint.A) * t
		base := i * 4
		// Premultiplied, as ebiten expects.
		buf[base+0] = uint8(float64(tint.R) * a / 255)
		buf[base+1] = uint8(float64(tint.G) * a / 255)
		buf[base+2] = uint8(float64(tint.B) * a / 255)
		buf[base+3] = uint8(a)
	}
}

// FieldRange returns the minimum and maximum of field, or 0, 0 when empty.
func FieldRange(field []float64) (lo, hi float64) {
	if len(field) == 0 {
		return 0, 0
	}
	lo, hi = field[0], field[0]
	for _, v := range field[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
