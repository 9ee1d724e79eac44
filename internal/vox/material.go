package vox

// MaterialKind is the material class of a palette slot.
type MaterialKind uint8

const (
	MaterialDiffuse MaterialKind = iota
	MaterialMetal
	MaterialGlass
	MaterialEmit
)

func (k MaterialKind) String() string {
	switch k {
	case MaterialMetal:
		return "metal"
	case MaterialGlass:
		return "glass"
	case MaterialEmit:
		return "emit"
	default:
		return "diffuse"
	}
}

// MaterialProp names one optional scalar property of a material. Not all
// slots define all properties; presence is tracked per property.
type MaterialProp uint8

const (
	PropRoughness MaterialProp = iota
	PropSpecular
	PropIOR
	PropAttenuation
	PropFlux
	PropEmission
	PropAlpha
	PropDensity
	numMaterialProps
)

// Material is the optional per-palette-slot property record. The zero
// value is the default: diffuse with no extra properties.
type Material struct {
	Kind   MaterialKind
	Weight float32 // blend toward pure diffuse, (0,1]

	set    uint8
	values [numMaterialProps]float32
}

// Prop reports a property value and whether the slot defines it.
func (m *Material) Prop(p MaterialProp) (float32, bool) {
	if p >= numMaterialProps || m.set&(1<<p) == 0 {
		return 0, false
	}
	return m.values[p], true
}

// PropOr returns the property value or def when absent.
func (m *Material) PropOr(p MaterialProp, def float32) float32 {
	if v, ok := m.Prop(p); ok {
		return v
	}
	return def
}

func (m *Material) setProp(p MaterialProp, v float32) {
	m.set |= 1 << p
	m.values[p] = v
}

// materialKindFromType maps the _type dict value of a MATL chunk.
func materialKindFromType(s string) MaterialKind {
	switch s {
	case "_metal":
		return MaterialMetal
	case "_glass", "_blend", "_media":
		return MaterialGlass
	case "_emit":
		return MaterialEmit
	default:
		return MaterialDiffuse
	}
}

// materialFromDict decodes a MATL property dictionary.
func materialFromDict(d Dict) Material {
	m := Material{
		Kind:   materialKindFromType(d.String("_type", "")),
		Weight: float32(d.Float("_weight", 1)),
	}
	keys := []struct {
		key  string
		prop MaterialProp
	}{
		{"_rough", PropRoughness},
		{"_sp", PropSpecular},
		{"_spec", PropSpecular},
		{"_ior", PropIOR},
		{"_ri", PropIOR},
		{"_att", PropAttenuation},
		{"_flux", PropFlux},
		{"_emit", PropEmission},
		{"_alpha", PropAlpha},
		{"_trans", PropAlpha},
		{"_d", PropDensity},
	}
	for _, k := range keys {
		if d.Has(k.key) {
			m.setProp(k.prop, float32(d.Float(k.key, 0)))
		}
	}
	return m
}

// decodeLegacyMaterial reads a MATT chunk: material kind, weight and a bit
// mask selecting which float properties follow.
func decodeLegacyMaterial(r *reader) (int, Material, error) {
	id := r.readInt32()
	kind := r.readInt32()
	weight := r.readFloat32()
	bits := r.readInt32()

	m := Material{Weight: weight}
	switch kind {
	case 1:
		m.Kind = MaterialMetal
	case 2:
		m.Kind = MaterialGlass
	case 3:
		m.Kind = MaterialEmit
	default:
		m.Kind = MaterialDiffuse
	}
	// bit order: plastic, roughness, specular, IOR, attenuation, power,
	// glow, isTotalPower (no value stored for the last one)
	props := []MaterialProp{
		numMaterialProps, // plastic, not carried
		PropRoughness,
		PropSpecular,
		PropIOR,
		PropAttenuation,
		PropFlux,
		PropEmission,
	}
	for i, p := range props {
		if bits&(1<<i) == 0 {
			continue
		}
		v := r.readFloat32()
		if p < numMaterialProps {
			m.setProp(p, v)
		}
	}
	return int(id), m, r.Err()
}
