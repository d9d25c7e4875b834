package pipegraph

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Hash returns a structural hash of p compatible with Equal: any two
// pipelines Equal under the same (stateMask, layerMask, flags) hash
// identically (spec §4.5).
func Hash(p *Pipeline, stateMask Differences, layerMask LayerDifferences, flags CompareFlags) uint64 {
	var h uint64
	h = combine(h, boolHash(p.realBlendEnable))

	auth := multiAuthority(p, stateMask&AllSparse)
	for bit := Differences(1); bit <= stateMask; bit <<= 1 {
		if stateMask&bit == 0 {
			continue
		}
		a, ok := auth[bit]
		if !ok {
			continue
		}
		h = combine(h, hashPipelineGroup(a, bit, layerMask, flags))
	}
	return mix(h)
}

func hashPipelineGroup(p *Pipeline, g Differences, layerMask LayerDifferences, flags CompareFlags) uint64 {
	switch g {
	case StateColor:
		r, gg, b, a := p.color.Bytes()
		return bytesHash([]byte{r, gg, b, a})
	case StateBlendEnable:
		return uint64(p.blendEnableMode)
	case StateBlend:
		bl := p.big.blend
		buf := make([]byte, 0, 48)
		buf = appendUint64(buf, uint64(bl.RGBEquation))
		buf = appendUint64(buf, uint64(bl.AlphaEquation))
		buf = appendUint64(buf, uint64(bl.SrcRGB))
		buf = appendUint64(buf, uint64(bl.DstRGB))
		buf = appendUint64(buf, uint64(bl.SrcAlpha))
		buf = appendUint64(buf, uint64(bl.DstAlpha))
		return bytesHash(buf)
	case StateAlphaFunc:
		return uint64(p.alphaFunc)
	case StateAlphaRef:
		return floatHash(p.alphaRef)
	case StateLighting:
		l := p.big.lighting
		return combine(combine(combine(combine(colorHash(l.Ambient), colorHash(l.Diffuse)), colorHash(l.Specular)), colorHash(l.Emission)), floatHash(l.Shininess))
	case StateDepth:
		d := p.big.depth
		buf := make([]byte, 0, 32)
		buf = appendBool(buf, d.TestEnabled)
		buf = appendBool(buf, d.WriteEnabled)
		buf = appendUint64(buf, uint64(d.Func))
		buf = appendFloat(buf, d.RangeNear)
		buf = appendFloat(buf, d.RangeFar)
		return bytesHash(buf)
	case StateFog:
		f := p.big.fog
		buf := make([]byte, 0, 48)
		buf = appendBool(buf, f.Enabled)
		buf = appendUint64(buf, uint64(f.Mode))
		buf = appendFloat(buf, f.Density)
		buf = appendFloat(buf, f.Start)
		buf = appendFloat(buf, f.End)
		return combine(bytesHash(buf), colorHash(f.Color))
	case StateCullFace:
		return uint64(p.big.cullFace)
	case StateLogicOps:
		return uint64(p.big.logicOp)
	case StateUserShader:
		if p.big.shader == nil {
			return 0
		}
		return p.big.shader.ShaderID()
	case StatePointSize:
		return floatHash(p.big.pointSize)
	case StateLayers:
		return hashLayerArray(p, layerMask, flags)
	}
	return 0
}

func hashLayerArray(p *Pipeline, layerMask LayerDifferences, flags CompareFlags) uint64 {
	layers := resolveLayers(p)
	h := uint64(len(layers))
	for _, l := range layers {
		h = combine(h, hashLayer(l, layerMask, flags))
	}
	return h
}

func hashLayer(l *Layer, mask LayerDifferences, flags CompareFlags) uint64 {
	var h uint64
	for bit := LayerDifferences(1); bit <= mask; bit <<= 1 {
		if mask&bit == 0 {
			continue
		}
		a := layerAuthority(l, bit)
		h = combine(h, hashLayerGroup(a, bit))
	}
	return h
}

func hashLayerGroup(l *Layer, g LayerDifferences) uint64 {
	switch g {
	case LayerStateUnitIndex:
		return uint64(l.unitIndex)
	case LayerStateTextureTarget:
		return uint64(l.big.textureTarget)
	case LayerStateTextureData:
		if l.texture == nil {
			return 0
		}
		return uint64(l.texture.Handle())
	case LayerStateFilters:
		return combine(uint64(l.big.minFilter), uint64(l.big.magFilter))
	case LayerStateWrapModes:
		norm := func(w WrapMode) WrapMode {
			if w == WrapAutomatic {
				return WrapClampToEdge
			}
			return w
		}
		return combine(combine(uint64(norm(l.big.wrapS)), uint64(norm(l.big.wrapT))), uint64(norm(l.big.wrapR)))
	case LayerStateCombine:
		// Only the function, matching Equal's treatment of this group;
		// the constant is hashed under LayerStateCombineConstant.
		return uint64(l.big.combineFunc)
	case LayerStateCombineConstant:
		if !l.big.combineFunc.UsesConstant() {
			return 0
		}
		return colorHash(l.big.combineConstant)
	case LayerStateUserMatrix:
		m := l.big.userMatrix
		buf := make([]byte, 0, 48)
		buf = appendFloat(buf, m.A)
		buf = appendFloat(buf, m.B)
		buf = appendFloat(buf, m.C)
		buf = appendFloat(buf, m.D)
		buf = appendFloat(buf, m.E)
		buf = appendFloat(buf, m.F)
		return bytesHash(buf)
	case LayerStatePointSpriteCoords:
		return boolHash(l.big.pointSpriteEnabled)
	}
	return 0
}

func colorHash(c RGBA) uint64 {
	r, g, b, a := c.Bytes()
	return bytesHash([]byte{r, g, b, a})
}

func boolHash(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func floatHash(f float64) uint64 {
	return xxhash.Sum64(appendFloat(nil, f))
}

func bytesHash(b []byte) uint64 {
	return xxhash.Sum64(b)
}

func appendUint64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendFloat(buf []byte, f float64) []byte {
	return appendUint64(buf, math.Float64bits(f))
}

func appendBool(buf []byte, b bool) []byte {
	if b {
		return append(buf, 1)
	}
	return append(buf, 0)
}

// combine folds h2 into the running hash h1 using xxhash's own
// finisher as the mixing function, a straight upgrade of the
// hash/fnv running-accumulator idiom the back-end's own
// pipeline-descriptor cache uses, for a faster, better-avalanche
// finisher.
func combine(h1, h2 uint64) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], h1)
	binary.LittleEndian.PutUint64(buf[8:16], h2)
	return xxhash.Sum64(buf[:])
}

// mix is the terminal avalanche step applied once to the fully
// accumulated hash, per spec §4.5 step 5.
func mix(h uint64) uint64 {
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return xxhash.Sum64(appendUint64(nil, h))
}
